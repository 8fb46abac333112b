package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMSClientSend(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"To":             r.PostForm.Get("To"),
			"From":           r.PostForm.Get("From"),
			"Body":           r.PostForm.Get("Body"),
			"StatusCallback": r.PostForm.Get("StatusCallback"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM900","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewSMSClient(SMSConfig{
		BaseURL:        srv.URL,
		AccountSID:     "AC123",
		AuthToken:      "token",
		From:           "+447700900000",
		StatusCallback: "https://venue.example/api/v1/webhooks/sms/status",
	})
	sid, err := client.SendSMS(context.Background(), "+447700900123", "See you at 7")
	require.NoError(t, err)
	assert.Equal(t, "SM900", sid)
	assert.Equal(t, map[string]string{
		"To":             "+447700900123",
		"From":           "+447700900000",
		"Body":           "See you at 7",
		"StatusCallback": "https://venue.example/api/v1/webhooks/sms/status",
	}, form)
}

func TestSMSClientErrorClasses(t *testing.T) {
	status := http.StatusBadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	client := NewSMSClient(SMSConfig{BaseURL: srv.URL, AccountSID: "AC1", RatePerSecond: 1000})

	_, err := client.SendSMS(context.Background(), "+440", "x")
	require.Error(t, err)
	assert.True(t, IsPermanent(err), "4xx responses are not retried")
	assert.Contains(t, err.Error(), "21211")

	status = http.StatusServiceUnavailable
	_, err = client.SendSMS(context.Background(), "+447700900123", "x")
	require.Error(t, err)
	assert.False(t, IsPermanent(err))
}
