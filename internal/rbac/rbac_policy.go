package rbac

import "github.com/srihar-15/EMS/internal/domain"

// SelfSubject marks policies that apply only when the actor is the target.
const SelfSubject = "self"

const ModelText = `[request_definition]
r = sub, obj, act, actor, target

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (r.sub == p.sub || (p.sub == "self" && r.target != "" && r.actor == r.target)) && r.obj == p.obj && r.act == p.act
`

type Policy struct {
	Subject  string
	Resource string
	Action   string
}

func (p Policy) Rule() []string {
	return []string{p.Subject, p.Resource, p.Action}
}

func grant(role domain.Role, resource string, actions ...string) []Policy {
	out := make([]Policy, 0, len(actions))
	for _, a := range actions {
		out = append(out, Policy{Subject: string(role), Resource: resource, Action: a})
	}
	return out
}

func self(resource string, actions ...string) []Policy {
	out := make([]Policy, 0, len(actions))
	for _, a := range actions {
		out = append(out, Policy{Subject: SelfSubject, Resource: resource, Action: a})
	}
	return out
}

// Policies is the single role -> permission table. Both the server gate and
// the client's menu projection are derived from it.
var Policies = concat(
	grant(domain.RoleAdmin, domain.ResourceEmployee,
		domain.ActionCreate, domain.ActionList, domain.ActionRead, domain.ActionUpdate, domain.ActionDelete),
	grant(domain.RoleAdmin, domain.ResourceLeave,
		domain.ActionCreate, domain.ActionList, domain.ActionReadAll, domain.ActionApproveL2, domain.ActionReject),
	grant(domain.RoleAdmin, domain.ResourceAttendance, domain.ActionCreate, domain.ActionRead),
	grant(domain.RoleAdmin, domain.ResourcePerformance, domain.ActionCreate, domain.ActionRead),
	grant(domain.RoleAdmin, domain.ResourceAudit, domain.ActionList),
	grant(domain.RoleAdmin, domain.ResourceBudget, domain.ActionList, domain.ActionUpdate),
	grant(domain.RoleAdmin, domain.ResourceInsights, domain.ActionRead),

	grant(domain.RoleHR, domain.ResourceEmployee, domain.ActionList, domain.ActionRead, domain.ActionUpdate),
	grant(domain.RoleHR, domain.ResourceLeave,
		domain.ActionCreate, domain.ActionList, domain.ActionReadAll, domain.ActionApproveL1, domain.ActionReject),
	grant(domain.RoleHR, domain.ResourceAttendance, domain.ActionCreate, domain.ActionRead),
	grant(domain.RoleHR, domain.ResourcePerformance, domain.ActionCreate, domain.ActionRead),
	grant(domain.RoleHR, domain.ResourceBudget, domain.ActionList),

	grant(domain.RoleEmployee, domain.ResourceLeave, domain.ActionCreate, domain.ActionList),
	grant(domain.RoleEmployee, domain.ResourceAttendance, domain.ActionCreate),

	self(domain.ResourceEmployee, domain.ActionRead, domain.ActionUpdate),
	self(domain.ResourcePerformance, domain.ActionRead),
	self(domain.ResourceAttendance, domain.ActionRead),
	self(domain.ResourceNotification, domain.ActionUpdate),
)

func concat(groups ...[]Policy) []Policy {
	var out []Policy
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Rules renders Policies in the form the enforcer loads.
func Rules() [][]string {
	rules := make([][]string, 0, len(Policies))
	for _, p := range Policies {
		rules = append(rules, p.Rule())
	}
	return rules
}
