/*
Copyright © 2025 Jan-Phillip Oesterling <jpo@hav.media>

Licensed under the GNU GPL License, Version 3.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
https://www.gnu.org/licenses/gpl-3.0.en.html

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package hosts

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultPublicIPURL = "https://api.ipify.org"

// ValidationError reports a host that failed validation and why.
type ValidationError struct {
	Host   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid host %s: %s", e.Host, e.Reason)
}

// Validator checks that hostnames resolve to this machine's public address.
// The lookup and IP endpoint are swappable for tests.
type Validator struct {
	PublicIPURL string
	Client      *http.Client
	LookupHost  func(host string) ([]string, error)
}

// NewValidator returns a validator with the default resolver and endpoint.
func NewValidator() *Validator {
	return &Validator{
		PublicIPURL: defaultPublicIPURL,
		Client:      &http.Client{Timeout: 10 * time.Second},
		LookupHost:  net.LookupHost,
	}
}

// PublicIP returns the public IPv4 address of this machine.
func (v *Validator) PublicIP() (string, error) {
	resp, err := v.Client.Get(v.PublicIPURL)
	if err != nil {
		return "", fmt.Errorf("unable to determine public IP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unable to determine public IP: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unable to determine public IP: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}

// ValidateHosts checks every host. A host passes when it resolves and one
// of its addresses equals this machine's public address; the literal
// localhost is exempt.
func (v *Validator) ValidateHosts(hosts []string) error {
	publicIP := ""
	for _, host := range hosts {
		if host == "localhost" {
			continue
		}

		addrs, err := v.LookupHost(host)
		if err != nil || len(addrs) == 0 {
			return &ValidationError{Host: host, Reason: "host does not resolve to an IP address"}
		}

		if publicIP == "" {
			publicIP, err = v.PublicIP()
			if err != nil {
				return err
			}
		}

		matched := false
		for _, addr := range addrs {
			if addr == publicIP {
				matched = true
				break
			}
		}
		if !matched {
			return &ValidationError{Host: host, Reason: "the IP address associated with the host does not match the public IP address"}
		}
	}
	return nil
}
