package hestia

import "github.com/sirupsen/logrus"

// NewLogger returns the standard logger tagged with domain.
func NewLogger(domain string) *logrus.Entry {
	return logrus.StandardLogger().WithField("domain", domain)
}
