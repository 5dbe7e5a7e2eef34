package plan

import (
	"fmt"
	"path/filepath"

	"reorg/internal/fileutil"
)

// ArchiveDissolve plans the release of single-archive wrapper folders under
// root: a directory containing exactly one archive file and zero
// subdirectories is collapsed into its parent.
func (p *Planner) ArchiveDissolve(root string) (*Result, error) {
	return p.singleFileDissolve(root, ModeArchive, p.archiveExts)
}

// MediaDissolve plans the release of single-media wrapper folders under
// root, using the configured media extension set.
func (p *Planner) MediaDissolve(root string) (*Result, error) {
	return p.singleFileDissolve(root, ModeMedia, p.mediaExts)
}

func (p *Planner) singleFileDissolve(root string, mode Mode, exts map[string]struct{}) (*Result, error) {
	if len(exts) == 0 {
		return nil, fmt.Errorf("%s dissolve: no payload extensions configured", mode)
	}
	res := &Result{}
	var ops []Operation
	if _, err := p.simulateSingle(root, exts, &ops, res); err != nil {
		return nil, err
	}
	res.Plan = newPlan(root, mode, ops)
	return res, nil
}

// simEntry models a directory entry as it will exist once previously planned
// operations have been applied.
type simEntry struct {
	name string
	dir  bool
}

// simulateSingle walks dir bottom-up and returns its simulated entry listing
// after inner wrappers have been dissolved. Planning against the simulated
// view lets an outer wrapper resolve a payload that an inner dissolve will
// only move into place at execution time.
func (p *Planner) simulateSingle(dir string, exts map[string]struct{}, ops *[]Operation, res *Result) ([]simEntry, error) {
	entries, err := fileutil.SortedEntries(dir)
	if err != nil {
		return nil, err
	}
	out := make([]simEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			out = append(out, simEntry{name: entry.Name()})
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if p.excluded(sub) {
			out = append(out, simEntry{name: entry.Name(), dir: true})
			continue
		}
		childEntries, err := p.simulateSingle(sub, exts, ops, res)
		if err != nil {
			return nil, err
		}
		if len(childEntries) == 1 && !childEntries[0].dir && hasExtension(childEntries[0].name, exts) {
			payload := childEntries[0].name
			match := p.gate.Match(entry.Name(), stem(payload))
			res.Matches = append(res.Matches, match)
			if match.Accepted {
				*ops = append(*ops,
					moveOp(filepath.Join(sub, payload), filepath.Join(dir, payload)),
					deleteDirOp(sub),
				)
				res.Dissolved++
				out = append(out, simEntry{name: payload})
				continue
			}
			res.GateSkips++
		}
		out = append(out, simEntry{name: entry.Name(), dir: true})
	}
	return out, nil
}

// DirectDissolve plans moving every entry of dir into its parent directory
// and deleting the emptied dir.
func (p *Planner) DirectDissolve(dir string) (*Result, error) {
	parent := filepath.Dir(dir)
	entries, err := fileutil.SortedEntries(dir)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	ops := make([]Operation, 0, len(entries)+1)
	for _, entry := range entries {
		src := filepath.Join(dir, entry.Name())
		if entry.IsDir() && p.excluded(src) {
			continue
		}
		ops = append(ops, moveOp(src, filepath.Join(parent, entry.Name())))
		if entry.IsDir() {
			res.MovedDirs++
		} else {
			res.MovedFiles++
		}
	}
	ops = append(ops, deleteDirOp(dir))
	res.Plan = newPlan(dir, ModeDirect, ops)
	return res, nil
}
