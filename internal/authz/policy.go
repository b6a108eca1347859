package authz

import (
	"errors"
	"fmt"
)

// Capability names an action guarded by the policy.
type Capability string

const (
	CapProductView   Capability = "product:view"
	CapProductManage Capability = "product:manage"
	CapStockAdjust   Capability = "stock:adjust"
	CapStockReceive  Capability = "stock:receive"
	CapSaleRecord    Capability = "sale:record"
	CapSaleViewAll   Capability = "sale:view_all"
	CapPaymentRecord Capability = "payment:record"
	CapReportView    Capability = "report:view"
	CapExpenseManage Capability = "expense:manage"
	CapUserManage    Capability = "user:manage"
)

// ErrForbidden is matched with errors.Is by the HTTP layer.
var ErrForbidden = errors.New("forbidden")

// DeniedError explains which capability the actor was missing.
type DeniedError struct {
	Role       Role
	Capability Capability
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("role %q may not perform %s", e.Role, e.Capability)
}

func (e *DeniedError) Unwrap() error { return ErrForbidden }

// Policy maps roles to capabilities.
type Policy struct {
	grants map[Role]map[Capability]bool
	// creatable lists which roles each role may create accounts for.
	creatable map[Role]Role
}

// DefaultPolicy is the shop's role matrix: the owner sees money, managers run
// the floor, salesmen sell.
func DefaultPolicy() *Policy {
	p := &Policy{
		grants: map[Role]map[Capability]bool{},
		creatable: map[Role]Role{
			RoleOwner:   RoleManager,
			RoleManager: RoleSalesman,
		},
	}
	p.grant(RoleOwner,
		CapProductView, CapProductManage, CapStockAdjust, CapStockReceive,
		CapSaleRecord, CapSaleViewAll, CapPaymentRecord, CapReportView,
		CapExpenseManage, CapUserManage,
	)
	p.grant(RoleManager,
		CapProductView, CapProductManage, CapStockReceive,
		CapSaleRecord, CapSaleViewAll, CapExpenseManage, CapUserManage,
	)
	p.grant(RoleSalesman, CapProductView, CapSaleRecord)
	return p
}

func (p *Policy) grant(role Role, caps ...Capability) {
	if p.grants[role] == nil {
		p.grants[role] = map[Capability]bool{}
	}
	for _, c := range caps {
		p.grants[role][c] = true
	}
}

// Can reports whether the actor holds the capability.
func (p *Policy) Can(a Actor, c Capability) bool {
	return p.grants[a.Role][c]
}

// Require returns a *DeniedError when the actor lacks the capability.
func (p *Policy) Require(a Actor, c Capability) error {
	if !p.Can(a, c) {
		return &DeniedError{Role: a.Role, Capability: c}
	}
	return nil
}

// CanCreate reports whether the actor may create an account with the given role.
// Owners create managers, managers create salesmen.
func (p *Policy) CanCreate(a Actor, target Role) bool {
	r, ok := p.creatable[a.Role]
	return ok && r == target
}
