package notifications

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	authmodels "movieexplorer/src/modules/auth/models"
	models "movieexplorer/src/modules/notifications/models"
	"movieexplorer/src/utils"
)

type fakeRemote struct {
	tokens  []string
	toggles []bool
	err     error
}

func (f *fakeRemote) UpdateDeviceToken(_ context.Context, _, deviceToken string) error {
	f.tokens = append(f.tokens, deviceToken)
	return f.err
}

func (f *fakeRemote) ToggleNotifications(_ context.Context, _ string, enabled bool) error {
	f.toggles = append(f.toggles, enabled)
	return f.err
}

func session() *authmodels.Session {
	return &authmodels.Session{ID: "s1", Token: "tok", UserData: `{"email":"ann@example.com"}`}
}

func TestRegisterDeviceRejectsShortTokens(t *testing.T) {
	remote := &fakeRemote{}
	svc := NewService(remote, NewMemoryPreferenceStore(), nil)

	_, err := svc.RegisterDevice(context.Background(), session(), "short-token")
	var se *utils.ServiceError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 ServiceError", err)
	}
	if len(remote.tokens) != 0 {
		t.Error("short token was forwarded")
	}
}

func TestRegisterDeviceStoresDistinctTokens(t *testing.T) {
	remote := &fakeRemote{}
	store := NewMemoryPreferenceStore()
	svc := NewService(remote, store, nil)
	ctx := context.Background()
	token := strings.Repeat("a", 60)

	for i := 0; i < 2; i++ {
		if _, err := svc.RegisterDevice(ctx, session(), token); err != nil {
			t.Fatalf("RegisterDevice: %v", err)
		}
	}
	pref, _ := store.Get(ctx, "ann@example.com")
	if !pref.Enabled || len(pref.DeviceTokens) != 1 {
		t.Errorf("preference = %+v", pref)
	}
	if len(remote.tokens) != 2 {
		t.Errorf("remote calls = %d, want 2", len(remote.tokens))
	}
}

func TestToggle(t *testing.T) {
	remote := &fakeRemote{}
	store := NewMemoryPreferenceStore()
	svc := NewService(remote, store, nil)
	ctx := context.Background()

	pref, err := svc.Toggle(ctx, session(), false)
	if err != nil || pref.Enabled {
		t.Fatalf("Toggle(false) = %+v, %v", pref, err)
	}
	pref, err = svc.Toggle(ctx, session(), true)
	if err != nil || !pref.Enabled {
		t.Fatalf("Toggle(true) = %+v, %v", pref, err)
	}
	if len(remote.toggles) != 2 {
		t.Errorf("remote toggles = %v", remote.toggles)
	}
}

func TestToggleRemoteFailureKeepsPreference(t *testing.T) {
	remote := &fakeRemote{err: errors.New("down")}
	store := NewMemoryPreferenceStore()
	svc := NewService(remote, store, nil)
	ctx := context.Background()
	_ = store.Save(ctx, models.NotificationPreference{UserEmail: "ann@example.com", Enabled: true})

	if _, err := svc.Toggle(ctx, session(), false); err == nil {
		t.Fatal("expected error")
	}
	pref, _ := store.Get(ctx, "ann@example.com")
	if !pref.Enabled {
		t.Error("preference changed despite remote failure")
	}
}
