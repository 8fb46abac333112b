package helper

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	PermBookingsRead         = "bookings:read"
	PermBookingsWrite        = "bookings:write"
	PermPrivateBookingsRead  = "private_bookings:read"
	PermPrivateBookingsWrite = "private_bookings:write"
	PermCustomersRead        = "customers:read"
	PermCustomersWrite       = "customers:write"
	PermVendorsRead          = "vendors:read"
	PermVendorsWrite         = "vendors:write"
	PermQuotesRead           = "quotes:read"
	PermQuotesWrite          = "quotes:write"
	PermInvoicesRead         = "invoices:read"
	PermInvoicesWrite        = "invoices:write"
	PermLoyaltyRead          = "loyalty:read"
	PermLoyaltyWrite         = "loyalty:write"
	PermMessagesRead         = "messages:read"
	PermMessagesSend         = "messages:send"
	PermCalendarRead         = "calendar:read"
	PermCalendarWrite        = "calendar:write"
	PermReportsRead          = "reports:read"
	PermAuditRead            = "audit:read"
	PermSettingsRead         = "settings:read"
	PermSettingsWrite        = "settings:write"
	PermAccountsManage       = "accounts:manage"
)

//go:embed permissions.yaml
var defaultPermissions []byte

type permissionFile struct {
	Roles map[string][]string `yaml:"roles"`
}

var (
	permOnce  sync.Once
	permTable map[string][]string
	permErr   error
)

func ParsePermissions(data []byte) (map[string][]string, error) {
	var f permissionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse permissions: %w", err)
	}
	if len(f.Roles) == 0 {
		return nil, fmt.Errorf("parse permissions: no roles defined")
	}
	return f.Roles, nil
}

func permissions() map[string][]string {
	permOnce.Do(func() {
		permTable, permErr = ParsePermissions(defaultPermissions)
	})
	if permErr != nil {
		panic(permErr)
	}
	return permTable
}

func grantMatches(grant, permission string) bool {
	if grant == "*" || grant == permission {
		return true
	}
	if prefix, ok := strings.CutSuffix(grant, ":*"); ok {
		resource, _, _ := strings.Cut(permission, ":")
		return resource == prefix
	}
	return false
}

// HasPermission reports whether role is granted permission by the embedded table.
func HasPermission(role, permission string) bool {
	for _, grant := range permissions()[role] {
		if grantMatches(grant, permission) {
			return true
		}
	}
	return false
}

// PermissionsFor lists the raw grants of a role, used by the /account/me response.
func PermissionsFor(role string) []string {
	grants := permissions()[role]
	out := make([]string, len(grants))
	copy(out, grants)
	return out
}
