package ghostline

// Direction is the direction of movement through a SuggestionSet.
type Direction int

const (
	// Up moves towards the top ranked candidate.
	Up Direction = iota
	// Down moves towards the lowest ranked candidate.
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// SuggestionSet is an ordered list of candidates for a line, best first, and
// the index of the highlighted candidate. A Selected value of -1 indicates no
// explicit selection, in which case the top candidate is active.
type SuggestionSet struct {
	Items    []string
	Selected int
	// Line is the text of the line the candidates were fetched for.
	Line string
}

func newSuggestionSet(line string, items []string) SuggestionSet {
	return SuggestionSet{Items: items, Selected: -1, Line: line}
}

// Empty returns true if the set holds no candidates.
func (s SuggestionSet) Empty() bool {
	return len(s.Items) == 0
}

// Active returns the candidate currently previewed: the selected candidate if
// there is one, and the top candidate otherwise.
func (s SuggestionSet) Active() (string, bool) {
	switch {
	case s.Empty():
		return "", false
	case s.Selected >= 0 && s.Selected < len(s.Items):
		return s.Items[s.Selected], true
	default:
		return s.Items[0], true
	}
}

// Next returns the set with the selection moved one step in the given
// direction, wrapping at either end. Movement from an unselected set starts at
// the top candidate. Next on an empty set returns the set unchanged.
func (s SuggestionSet) Next(dir Direction) SuggestionSet {
	n := len(s.Items)
	if n == 0 {
		return s
	}
	i := s.Selected
	if i < 0 {
		i = 0
	}
	switch dir {
	case Up:
		i = (i - 1 + n) % n
	case Down:
		i = (i + 1) % n
	}
	s.Selected = i
	return s
}
