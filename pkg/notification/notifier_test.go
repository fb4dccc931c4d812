package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSMSGatewayNotify(t *testing.T) {
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"To":   r.PostFormValue("To"),
			"From": r.PostFormValue("From"),
			"Body": r.PostFormValue("Body"),
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization header = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	gw := NewSMSGateway(srv.URL, "+15550100", "secret", zap.NewNop())
	if err := gw.Notify(context.Background(), "+916375195644", "Asha"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if gotForm["To"] != "+916375195644" {
		t.Errorf("To = %q", gotForm["To"])
	}
	if gotForm["From"] != "+15550100" {
		t.Errorf("From = %q", gotForm["From"])
	}
	if gotForm["Body"] != "ALERT: Ambulance dispatched for Asha. Stay safe!" {
		t.Errorf("Body = %q", gotForm["Body"])
	}
}

func TestSMSGatewayNotifyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	gw := NewSMSGateway(srv.URL, "+15550100", "", zap.NewNop())
	if err := gw.Notify(context.Background(), "+916375195644", "Asha"); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	if err := n.Notify(context.Background(), "+916375195644", "Asha"); err != nil {
		t.Fatalf("notify: %v", err)
	}
}
