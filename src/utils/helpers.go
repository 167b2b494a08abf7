package utils

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func Paginate(total int64, page, perPage int) map[string]interface{} {
	// Avoid division by zero
	if perPage <= 0 {
		perPage = 1
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	var nextPage, prevPage *int
	if page < totalPages {
		next := page + 1
		nextPage = &next
	}
	if page > 1 {
		prev := page - 1
		prevPage = &prev
	}

	return map[string]interface{}{
		"current_page":   page,
		"items_per_page": perPage,
		"next_page":      nextPage,
		"previous_page":  prevPage,
		"total_count":    total,
		"total_pages":    totalPages,
	}
}

// ParseID reads a positive numeric path id.
func ParseID(str string) (int64, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
	if err != nil || i <= 0 {
		return 0, &ServiceError{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("invalid id %q", str)}
	}
	return i, nil
}

// ServiceError to define return exception for system
type ServiceError struct {
	StatusCode int
	Message    string
	// Redirect is a client route the shell should move to, e.g. the plans page.
	Redirect string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) HTTPStatus() int { return e.StatusCode }

func (e *ServiceError) UserMessage() string { return e.Message }

// CalculateOffsetStruct is the struct to define return result for calculate service
type CalculateOffsetStruct struct {
	CurrentPage  int
	ItemsPerPage int
	Offset       int
	End          int
}

// CalculateOffset is the function to calculate the slice window of a page
// over total items
func CalculateOffset(currentPage, itemsPerPage, total int) CalculateOffsetStruct {
	if currentPage < 1 {
		currentPage = 1
	}
	if itemsPerPage <= 0 {
		itemsPerPage = 1
	}

	// Compare before multiplying so a huge page cannot wrap the offset.
	offset := total
	if currentPage-1 <= total/itemsPerPage {
		offset = min((currentPage-1)*itemsPerPage, total)
	}
	end := offset + itemsPerPage
	if end > total {
		end = total
	}

	return CalculateOffsetStruct{
		CurrentPage:  currentPage,
		ItemsPerPage: itemsPerPage,
		Offset:       offset,
		End:          end,
	}
}

// Bind binds the request body, form or query into request and turns
// validator failures into a readable 400.
func Bind(c *gin.Context, request interface{}) *ServiceError {
	if err := c.ShouldBind(request); err != nil {
		return &ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    ValidationMessage(err),
		}
	}
	return nil
}

// ValidationMessage renders binding errors one field at a time.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid input"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email_format":
		return "Please enter a valid email address"
	case "strong_password":
		return "Password must be at least 8 characters and include a letter, a number and a special character"
	case "phone10":
		return "Phone number must be exactly 10 digits"
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	case "eqfield":
		return field + " does not match"
	default:
		return field + " is invalid"
	}
}

type statusCarrier interface {
	HTTPStatus() int
	UserMessage() string
}

// RespondError writes err as {"error": message} with the status it carries,
// 500 for anything unrecognized.
func RespondError(c *gin.Context, err error) {
	var se *ServiceError
	if errors.As(err, &se) {
		body := gin.H{"error": se.Message}
		if se.Redirect != "" {
			body["redirect"] = se.Redirect
		}
		c.JSON(se.StatusCode, body)
		return
	}
	var sc statusCarrier
	if errors.As(err, &sc) {
		c.JSON(sc.HTTPStatus(), gin.H{"error": sc.UserMessage()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}
