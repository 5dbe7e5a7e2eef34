package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"reorg/internal/fileutil"
)

// RenameItem is one candidate for template renaming. Fields carries named
// metadata substituted into the template; built-in fields (name, stem, ext,
// index, date) are derived from the path and may be overridden per item.
type RenameItem struct {
	Path   string            `json:"path"`
	IsDir  bool              `json:"is_dir,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RenameOptions bounds template expansion.
type RenameOptions struct {
	// Template is the naming pattern, with {field} placeholders.
	Template string
	// MaxNameLength caps the final name; truncation preserves the extension.
	MaxNameLength int
	// MaxDescriptionLength caps the description field before substitution.
	MaxDescriptionLength int
}

// ScanRenameItems lists root's immediate entries, sorted by name, as rename
// candidates. Each item starts with a modification-date field so templates
// can reference {date}.
func (p *Planner) ScanRenameItems(root string) ([]RenameItem, error) {
	entries, err := fileutil.SortedEntries(root)
	if err != nil {
		return nil, err
	}
	items := make([]RenameItem, 0, len(entries))
	for _, entry := range entries {
		full := filepath.Join(root, entry.Name())
		if entry.IsDir() && p.excluded(full) {
			continue
		}
		item := RenameItem{Path: full, IsDir: entry.IsDir(), Fields: map[string]string{}}
		if info, err := entry.Info(); err == nil {
			item.Fields["date"] = info.ModTime().Format("2006-01-02")
		}
		items = append(items, item)
	}
	return items, nil
}

// Rename plans old-name to new-name moves for the given items by expanding
// the template per item. Items whose expanded name equals the current name
// produce no operation.
func (p *Planner) Rename(items []RenameItem, opts RenameOptions) (*Result, error) {
	if strings.TrimSpace(opts.Template) == "" {
		return nil, fmt.Errorf("rename: empty template")
	}
	res := &Result{}
	var ops []Operation
	root := ""
	for i, item := range items {
		if root == "" {
			root = filepath.Dir(item.Path)
		}
		newName := expandTemplate(opts.Template, renameFields(item, i+1, opts.MaxDescriptionLength))
		newName = sanitizeName(newName)
		if newName == "" {
			continue
		}
		if !item.IsDir {
			if ext := filepath.Ext(item.Path); ext != "" && !strings.EqualFold(filepath.Ext(newName), ext) {
				newName += ext
			}
		}
		newName = truncateName(newName, opts.MaxNameLength)
		if newName == filepath.Base(item.Path) {
			continue
		}
		ops = append(ops, moveOp(item.Path, filepath.Join(filepath.Dir(item.Path), newName)))
		if item.IsDir {
			res.MovedDirs++
		} else {
			res.MovedFiles++
		}
	}
	res.Plan = newPlan(root, ModeRename, ops)
	return res, nil
}

func renameFields(item RenameItem, index, maxDescription int) map[string]string {
	base := filepath.Base(item.Path)
	fields := map[string]string{
		"name":  base,
		"stem":  stem(base),
		"ext":   strings.TrimPrefix(filepath.Ext(base), "."),
		"index": fmt.Sprintf("%d", index),
	}
	for k, v := range item.Fields {
		fields[k] = v
	}
	if desc, ok := fields["description"]; ok && maxDescription > 0 {
		fields["description"] = truncateRunes(desc, maxDescription)
	}
	return fields
}

func expandTemplate(template string, fields map[string]string) string {
	var b strings.Builder
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		close := strings.IndexByte(rest[open:], '}')
		if close < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		key := rest[open+1 : open+close]
		if val, ok := fields[key]; ok {
			b.WriteString(val)
		}
		rest = rest[open+close+1:]
	}
	return strings.TrimSpace(b.String())
}

// sanitizeName strips path separators and characters that are not portable
// in filenames.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// truncateName caps name at max runes while preserving the extension. A max
// of 0 disables truncation.
func truncateName(name string, max int) string {
	if max <= 0 || len([]rune(name)) <= max {
		return name
	}
	ext := filepath.Ext(name)
	if len([]rune(ext)) >= max {
		return truncateRunes(name, max)
	}
	return truncateRunes(stem(name), max-len([]rune(ext))) + ext
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
