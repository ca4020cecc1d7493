package models

// Rule is a house rule for what happens after a match ends. The set is closed:
// TwoTeamRule, ThreeTeamRule and FourTeamRule are the only implementations.
type Rule interface {
	TeamQuantity() TeamQuantity
	String() string
	rule()
}

type TwoTeamRule string

const (
	AfterTimeChangeSide TwoTeamRule = "afterTimeChangeSide"
	AfterTimeStaySide   TwoTeamRule = "afterTimeStaySide"
)

func (TwoTeamRule) TeamQuantity() TeamQuantity { return TwoTeams }
func (r TwoTeamRule) String() string           { return string(r) }
func (TwoTeamRule) rule()                      {}

type ThreeTeamRule string

const (
	ThreeOnly2Games          ThreeTeamRule = "only2Games"
	ThreeWinnerStay2         ThreeTeamRule = "winnerStay2"
	ThreeWinnerStay3         ThreeTeamRule = "winnerStay3"
	ThreeWinnerStay4         ThreeTeamRule = "winnerStay4"
	ThreeWinnerStayUnlimited ThreeTeamRule = "winnerStayUnlimited"
)

func (ThreeTeamRule) TeamQuantity() TeamQuantity { return ThreeTeams }
func (r ThreeTeamRule) String() string           { return string(r) }
func (ThreeTeamRule) rule()                      {}

type FourTeamRule string

const (
	FourOnly3Games          FourTeamRule = "only3Games"
	FourWinnerStay3         FourTeamRule = "winnerStay3"
	FourWinnerStay4         FourTeamRule = "winnerStay4"
	FourWinnerStay5         FourTeamRule = "winnerStay5"
	FourWinnerStay6         FourTeamRule = "winnerStay6"
	FourWinnerStayUnlimited FourTeamRule = "winnerStayUnlimited"
)

func (FourTeamRule) TeamQuantity() TeamQuantity { return FourTeams }
func (r FourTeamRule) String() string           { return string(r) }
func (FourTeamRule) rule()                      {}

var (
	twoTeamRules   = []Rule{AfterTimeChangeSide, AfterTimeStaySide}
	threeTeamRules = []Rule{ThreeOnly2Games, ThreeWinnerStay2, ThreeWinnerStay3, ThreeWinnerStay4, ThreeWinnerStayUnlimited}
	fourTeamRules  = []Rule{FourOnly3Games, FourWinnerStay3, FourWinnerStay4, FourWinnerStay5, FourWinnerStay6, FourWinnerStayUnlimited}
)

// Rules lists the variants available for a team quantity, default first.
func Rules(q TeamQuantity) []Rule {
	var src []Rule
	switch q {
	case TwoTeams:
		src = twoTeamRules
	case FourTeams:
		src = fourTeamRules
	default:
		src = threeTeamRules
	}
	out := make([]Rule, len(src))
	copy(out, src)
	return out
}

// DefaultRule is the first variant of the family.
func DefaultRule(q TeamQuantity) Rule {
	return Rules(q)[0]
}

// ParseRule resolves a stored rule name inside the family for q.
// Names from another family, or unknown names, give the family default.
func ParseRule(q TeamQuantity, raw string) Rule {
	for _, r := range Rules(q) {
		if r.String() == raw {
			return r
		}
	}
	return DefaultRule(q)
}

// WinnerStayLimit reports the consecutive-win cap of a winner-stays rule.
// unlimited is true for winnerStayUnlimited; ok is false for any other rule.
func WinnerStayLimit(r Rule) (limit int, unlimited bool, ok bool) {
	switch r {
	case ThreeWinnerStay2:
		return 2, false, true
	case ThreeWinnerStay3, FourWinnerStay3:
		return 3, false, true
	case ThreeWinnerStay4, FourWinnerStay4:
		return 4, false, true
	case FourWinnerStay5:
		return 5, false, true
	case FourWinnerStay6:
		return 6, false, true
	case ThreeWinnerStayUnlimited, FourWinnerStayUnlimited:
		return 0, true, true
	}
	return 0, false, false
}
