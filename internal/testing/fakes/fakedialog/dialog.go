// Package fakedialog provides a test fake for ports.DialogProvider.
package fakedialog

import "github.com/acolita/screentime/internal/ports"

// Provider is a controllable fake DialogProvider for testing.
type Provider struct {
	// Result is the form data returned by SessionForm.
	Result ports.SessionFormData
	// Err is the error returned by SessionForm.
	Err error
	// Called tracks whether SessionForm was invoked.
	Called bool
	// ReceivedPrefill captures the prefill data passed to SessionForm.
	ReceivedPrefill ports.SessionFormData
}

// New returns a new fake dialog provider.
func New() *Provider {
	return &Provider{}
}

// SessionForm returns the pre-configured Result and Err.
func (p *Provider) SessionForm(prefill ports.SessionFormData) (ports.SessionFormData, error) {
	p.Called = true
	p.ReceivedPrefill = prefill
	if p.Err != nil {
		return prefill, p.Err
	}
	return p.Result, nil
}

// Ensure Provider implements ports.DialogProvider.
var _ ports.DialogProvider = (*Provider)(nil)
