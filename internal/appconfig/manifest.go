package appconfig

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"gopkg.in/yaml.v3"
)

// Manifest renders the configuration as YAML, the form shown in the details
// tab and diffed on reset.
func (c *Configuration) Manifest() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}
	return string(data), nil
}

// ChangesFromDefaults returns a unified diff of the configuration against a
// fresh default one. Empty means nothing would be lost by a reset.
func (c *Configuration) ChangesFromDefaults() (string, error) {
	return c.ChangesFrom(Default())
}

// ChangesFrom returns a unified diff of the configuration against base.
func (c *Configuration) ChangesFrom(base Configuration) (string, error) {
	before, err := base.Manifest()
	if err != nil {
		return "", err
	}
	after, err := c.Manifest()
	if err != nil {
		return "", err
	}
	if before == after {
		return "", nil
	}
	diff := udiff.Unified("initial", "current", before, after)
	return strings.TrimRight(diff, "\n"), nil
}
