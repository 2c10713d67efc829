package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/circles/internal/datastore"
	"github.com/julianstephens/circles/internal/models"
)

// FindBehavior resolves ref as a behavior id, then as a case-insensitive name.
func FindBehavior(store *datastore.Store, ref string) (models.Behavior, error) {
	ref = strings.TrimSpace(ref)
	if b, ok := store.GetBehavior(ref); ok {
		return b, nil
	}

	var matches []models.Behavior
	for _, b := range store.GetBehaviors("") {
		if strings.EqualFold(b.Name, ref) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return models.Behavior{}, fmt.Errorf("behavior %q not found", ref)
	case 1:
		return matches[0], nil
	}
	return models.Behavior{}, fmt.Errorf("%d behaviors are named %q, use the id instead", len(matches), ref)
}
