package competition

import "fmt"

// Competition is a league or cup as listed by football-data.org.
type Competition struct {
	ID        int64
	Code      string
	Name      string
	EmblemURL string
	AreaName  string
}

func (c Competition) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("competition id must be > 0")
	}
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}
	return nil
}

// Label is the short human name used in file names and selectors.
func (c Competition) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%d", c.ID)
}

// Find returns the competition with the given id. A zero id selects the first.
func Find(items []Competition, id int64) (Competition, bool) {
	if len(items) == 0 {
		return Competition{}, false
	}
	if id == 0 {
		return items[0], true
	}
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Competition{}, false
}
