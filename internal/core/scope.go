package core

// ScopeMode selects the partition an aggregation runs over.
type ScopeMode string

const (
	// ScopeGlobal covers the flat, unpartitioned ledger.
	ScopeGlobal ScopeMode = "global"
	// ScopeIndividual restricts to one profile's records.
	ScopeIndividual ScopeMode = "individual"
	// ScopeGroup spans every profile in a group.
	ScopeGroup ScopeMode = "group"
)

// Scope is the explicit partition parameter every aggregation takes. There
// is deliberately no ambient view-mode state; callers construct a Scope per
// request and the same engine serves flat and partitioned ledgers.
type Scope struct {
	Mode      ScopeMode
	ProfileID string
	GroupID   string
}

func GlobalScope() Scope {
	return Scope{Mode: ScopeGlobal}
}

func ProfileScope(profileID string) Scope {
	return Scope{Mode: ScopeIndividual, ProfileID: profileID}
}

func GroupScope(groupID string) Scope {
	return Scope{Mode: ScopeGroup, GroupID: groupID}
}

// Matches reports whether the transaction belongs to this scope.
func (s Scope) Matches(t Transaction) bool {
	switch s.Mode {
	case ScopeIndividual:
		return t.ProfileID == s.ProfileID
	case ScopeGroup:
		return t.GroupID == s.GroupID
	default:
		return true
	}
}

// MatchesBudget reports whether the budget belongs to this scope.
func (s Scope) MatchesBudget(b Budget) bool {
	switch s.Mode {
	case ScopeIndividual:
		return b.ProfileID == s.ProfileID
	case ScopeGroup:
		return b.GroupID == s.GroupID
	default:
		return true
	}
}
