package hosts_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/havmedia/aura/internal/hosts"
)

func newTestValidator(t *testing.T, ip string, addrs map[string][]string) (*hosts.Validator, *int) {
	t.Helper()
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprintf(w, "%s\n", ip)
	}))
	t.Cleanup(server.Close)

	return &hosts.Validator{
		PublicIPURL: server.URL,
		Client:      server.Client(),
		LookupHost: func(host string) ([]string, error) {
			resolved, ok := addrs[host]
			if !ok {
				return nil, fmt.Errorf("no such host")
			}
			return resolved, nil
		},
	}, &requests
}

func TestPublicIPTrimsWhitespace(t *testing.T) {
	validator, _ := newTestValidator(t, "203.0.113.7", nil)

	ip, err := validator.PublicIP()
	assert.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestValidateHostsAccepted(t *testing.T) {
	validator, _ := newTestValidator(t, "203.0.113.7", map[string][]string{
		"odoo.example.com": {"198.51.100.1", "203.0.113.7"},
	})

	assert.NoError(t, validator.ValidateHosts([]string{"odoo.example.com"}))
}

func TestValidateHostsLocalhostExempt(t *testing.T) {
	validator, requests := newTestValidator(t, "203.0.113.7", nil)
	validator.LookupHost = func(host string) ([]string, error) {
		t.Fatalf("lookup should not run for %s", host)
		return nil, nil
	}

	assert.NoError(t, validator.ValidateHosts([]string{"localhost"}))
	assert.Equal(t, 0, *requests)
}

func TestValidateHostsUnresolvable(t *testing.T) {
	validator, _ := newTestValidator(t, "203.0.113.7", map[string][]string{})

	err := validator.ValidateHosts([]string{"ghost.example.com"})
	validationErr, ok := err.(*hosts.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "ghost.example.com", validationErr.Host)
	assert.Contains(t, validationErr.Reason, "does not resolve")
}

func TestValidateHostsMismatch(t *testing.T) {
	validator, _ := newTestValidator(t, "203.0.113.7", map[string][]string{
		"odoo.example.com": {"198.51.100.1"},
	})

	err := validator.ValidateHosts([]string{"odoo.example.com"})
	validationErr, ok := err.(*hosts.ValidationError)
	assert.True(t, ok)
	assert.Contains(t, validationErr.Reason, "does not match the public IP")
}

func TestValidateHostsFetchesPublicIPOnce(t *testing.T) {
	validator, requests := newTestValidator(t, "203.0.113.7", map[string][]string{
		"odoo.example.com": {"203.0.113.7"},
		"erp.example.com":  {"203.0.113.7"},
	})

	assert.NoError(t, validator.ValidateHosts([]string{"odoo.example.com", "erp.example.com"}))
	assert.Equal(t, 1, *requests)
}
