package sync

import (
	"errors"
	"fmt"
	"os"

	"catalogsync/catalog"
	"catalogsync/ci"
)

// Syncer runs one reconciliation pass: every model ID present in a pricing
// file but missing from its general file(s) gets a stub entry appended.
// Structural problems in a single general file degrade to a warning and a
// skip; problems with the pricing file abort the run.
type Syncer struct {
	log        *ci.Annotator
	stub       Stub
	reserved   map[string]bool
	aliases    map[string][]string
	generalDir string
}

func NewSyncer(cfg catalog.Config, log *ci.Annotator) *Syncer {
	return &Syncer{
		log:        log,
		stub:       StubFromConfig(cfg.Stub),
		reserved:   cfg.ReservedSet(),
		aliases:    cfg.Aliases,
		generalDir: cfg.GeneralDir,
	}
}

// Run syncs one pricing file. generalPath, when non-empty, overrides target
// resolution. A non-nil error means the whole run failed and the process
// should exit non-zero; per-target skips are not errors.
func (s *Syncer) Run(pricingPath, generalPath string) error {
	pricing, err := os.ReadFile(pricingPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Errorf(pricingPath, "Pricing file not found")
		} else {
			s.log.Errorf(pricingPath, "Cannot read pricing file: %v", err)
		}
		return fmt.Errorf("read pricing file: %w", err)
	}

	if _, err := TopLevelKeys(pricing); err != nil {
		s.log.Errorf(pricingPath, "Pricing file is not a JSON object")
		return fmt.Errorf("parse pricing file %s: %w", pricingPath, err)
	}

	for _, target := range ResolveGeneralPaths(pricingPath, generalPath, s.generalDir, s.aliases) {
		if err := s.syncTarget(pricing, target); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) syncTarget(pricing []byte, target string) error {
	info, err := os.Stat(target)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Noticef("No general file at %s, skipping", target)
		return nil
	}
	if err != nil {
		s.log.Errorf(target, "Cannot stat general file: %v", err)
		return fmt.Errorf("stat general file: %w", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		s.log.Errorf(target, "Cannot read general file: %v", err)
		return fmt.Errorf("read general file: %w", err)
	}

	missing, err := MissingModels(pricing, content, s.reserved)
	if err != nil {
		s.log.Errorf(target, "General file is not a JSON object")
		return fmt.Errorf("parse general file %s: %w", target, err)
	}

	if len(missing) == 0 {
		s.log.Printf("All pricing models already present in %s", target)
		return nil
	}

	indent := DetectIndent(string(content))
	entries, err := RenderEntries(missing, s.stub, indent)
	if err != nil {
		return err
	}

	updated, err := InsertBeforeRootClose(string(content), entries)
	switch {
	case errors.Is(err, ErrNoRootBrace):
		s.log.Warningf("Could not find root closing brace in %s, skipping", target)
		return nil
	case errors.Is(err, ErrRootShape):
		s.log.Warningf("Unexpected format before root brace in %s, skipping", target)
		return nil
	case err != nil:
		return err
	}

	if err := os.WriteFile(target, []byte(updated), info.Mode().Perm()); err != nil {
		s.log.Errorf(target, "Cannot write general file: %v", err)
		return fmt.Errorf("write general file: %w", err)
	}

	s.log.Printf("Added missing models to %s:", target)
	for _, id := range missing {
		s.log.Printf("  - %s", id)
	}
	return nil
}
