package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
	versionFileRe  = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
)

// CreateSQLMigration creates a goose SQL migration file:
//
//	<dir>/<YYYYMMDDHHMMSS>_<name>.sql
//
// The version is never lower than the newest migration already in dir, so files created in quick
// succession or on a skewed clock still apply in creation order.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigrationAt(dir, name, time.Now().UTC())
}

func createSQLMigrationAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe, err := sanitizeMigrationName(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	existing, err := existingMigrations(dir)
	if err != nil {
		return "", err
	}
	for _, m := range existing {
		if m.name == safe {
			return "", fmt.Errorf("migration named %q already exists: %s", safe, m.file)
		}
	}

	version := now.UTC().Truncate(time.Second)
	if n := len(existing); n > 0 && !version.After(existing[n-1].version) {
		version = existing[n-1].version.Add(time.Second)
	}

	filename := fmt.Sprintf("%s_%s.sql", version.Format(versionLayout), safe)
	fullpath := filepath.Join(dir, filename)

	template := fmt.Sprintf(`-- +goose Up
-- +goose StatementBegin
-- %s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %s
-- +goose StatementEnd
`, safe, safe)

	if err := os.WriteFile(fullpath, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}

	return fullpath, nil
}

func sanitizeMigrationName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name is required")
	}
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	return safe, nil
}

type migrationFile struct {
	file    string
	name    string
	version time.Time
}

// existingMigrations lists versioned SQL files in dir ordered by version.
func existingMigrations(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	out := make([]migrationFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := versionFileRe.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		version, err := time.Parse(versionLayout, match[1])
		if err != nil {
			continue
		}
		out = append(out, migrationFile{file: entry.Name(), name: match[2], version: version})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version.Before(out[j].version) })
	return out, nil
}
