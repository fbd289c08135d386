// Package sync reconciles pricing catalog files against their general
// counterparts by appending stub entries for missing models.
package sync

import (
	"path/filepath"
	"strings"
)

// ResolveGeneralPaths returns the general file(s) a pricing file syncs to.
// An explicit path wins outright. Otherwise the pricing file's base name is
// looked up under generalDir; alias entries fan a single pricing stem out to
// several general files (e.g. openai -> openai.json and open-ai.json).
func ResolveGeneralPaths(pricingPath, explicit, generalDir string, aliases map[string][]string) []string {
	if explicit != "" {
		return []string{explicit}
	}

	base := filepath.Base(pricingPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if names, ok := aliases[stem]; ok {
		paths := make([]string, 0, len(names))
		for _, name := range names {
			paths = append(paths, filepath.Join(generalDir, name))
		}
		return paths
	}

	return []string{filepath.Join(generalDir, base)}
}
