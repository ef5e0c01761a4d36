package auth

import (
	"github.com/shyptr/serlo-gateway/errors"
)

// Permission is something a caller may be allowed to do.
type Permission string

const (
	PermissionRemoveUUID           Permission = "uuid:remove"
	PermissionSetNotifications     Permission = "notifications:set"
	PermissionSetNotificationState Permission = "notifications:set-state"
	PermissionReadNotifications    Permission = "notifications:read"
)

// Rule grants a permission. An empty Services list allows every authenticated service.
type Rule struct {
	Services    []Service
	RequireUser bool
}

// Policy is the single place permissions are checked.
type Policy struct {
	rules map[Permission]Rule
}

func NewPolicy(rules map[Permission]Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy grants the permissions the gateway's mutations and user queries need.
func DefaultPolicy() *Policy {
	return NewPolicy(map[Permission]Rule{
		PermissionRemoveUUID:           {Services: []Service{ServiceSerlo, ServiceSerloCacheWorker}},
		PermissionSetNotifications:     {Services: []Service{ServiceSerlo}},
		PermissionSetNotificationState: {RequireUser: true},
		PermissionReadNotifications:    {RequireUser: true},
	})
}

// Authorize returns nil if identity holds permission. Anonymous callers and callers without a
// required user get an UNAUTHENTICATED error, everyone else a FORBIDDEN one.
func (p *Policy) Authorize(identity *Identity, permission Permission) error {
	if identity == nil {
		return errors.Unauthenticated("%s requires an authenticated caller", permission)
	}
	rule, ok := p.rules[permission]
	if !ok {
		return errors.Forbidden("unknown permission %s", permission)
	}
	if len(rule.Services) > 0 && !contains(rule.Services, identity.Service) {
		return errors.Forbidden("service %s is not allowed to %s", identity.Service, permission)
	}
	if rule.RequireUser && identity.UserID == nil {
		return errors.Unauthenticated("%s requires a user", permission)
	}
	return nil
}

func contains(services []Service, service Service) bool {
	for _, s := range services {
		if s == service {
			return true
		}
	}
	return false
}
