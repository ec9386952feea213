package account

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// round-trips a real message through a throwaway SMTP server
func TestSmtpMailer(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	// suppress logging
	testcontainers.Logger = log.New(io.Discard, "", 0)

	smtp, err := testcontainers.GenericContainer(
		context.Background(),
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "haravich/fake-smtp-server",
				ExposedPorts: []string{"1025:1025", "1090:1080"},
				WaitingFor:   wait.ForLog("smtp://0.0.0.0:1025"),
			},
		},
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, smtp.Terminate(context.Background()))
	}()

	mailer := NewSmtpMailer(SmtpConfig{
		Server:       "localhost",
		Port:         1025,
		EmailAddress: "alice@email.com",
		Password:     "default",
	})
	require.True(t, mailer.Configured())

	err = mailer.Send(context.Background(),
		"bob@email.com", "Verify your email", "http://localhost:5000/api/auth/verify?token=abc")
	require.NoError(t, err)

	res, err := resty.New().R().
		Get("http://127.0.0.1:1080/messages/1.plain")
	require.NoError(t, err)
	require.Contains(t, res.String(), "/api/auth/verify?token=abc")
}
