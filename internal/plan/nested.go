package plan

import (
	"os"
	"path/filepath"

	"reorg/internal/fileutil"
	"reorg/internal/logging"
)

// NestedDissolve plans the collapse of redundant single-subfolder wrappers
// under root. A directory holding exactly one subdirectory and zero files is
// a dissolve candidate; the similarity gate compares the wrapper's name to
// its lone child's. On acceptance the chain of lone-singleton children is
// followed to the deepest directory with real content, whose entries are
// moved up into the wrapper before the emptied chain is deleted.
func (p *Planner) NestedDissolve(root string) (*Result, error) {
	res := &Result{}
	var ops []Operation
	if err := p.nestedWalk(root, &ops, res); err != nil {
		return nil, err
	}
	res.Plan = newPlan(root, ModeNested, ops)
	return res, nil
}

func (p *Planner) nestedWalk(dir string, ops *[]Operation, res *Result) error {
	entries, err := fileutil.SortedEntries(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if p.excluded(sub) {
			continue
		}
		child, isWrapper, err := loneSubdir(sub)
		if err != nil {
			return err
		}
		if !isWrapper {
			if err := p.nestedWalk(sub, ops, res); err != nil {
				return err
			}
			continue
		}

		match := p.gate.Match(entry.Name(), filepath.Base(child))
		res.Matches = append(res.Matches, match)
		if !match.Accepted {
			res.GateSkips++
			p.logger.Debug("nested candidate below threshold",
				logging.String("parent", entry.Name()),
				logging.String("candidate", filepath.Base(child)),
				logging.Float64("similarity", match.Similarity))
			if err := p.nestedWalk(sub, ops, res); err != nil {
				return err
			}
			continue
		}

		deepest, err := followSingletonChain(child)
		if err != nil {
			return err
		}
		contents, err := fileutil.SortedEntries(deepest)
		if err != nil {
			return err
		}
		for _, item := range contents {
			*ops = append(*ops, moveOp(filepath.Join(deepest, item.Name()), filepath.Join(sub, item.Name())))
		}
		*ops = append(*ops, deleteDirOp(child))
		res.Dissolved++
	}
	return nil
}

// loneSubdir reports whether dir holds exactly one subdirectory and zero
// files, returning that subdirectory's path.
func loneSubdir(dir string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false, err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return "", false, nil
	}
	return filepath.Join(dir, entries[0].Name()), true, nil
}

// followSingletonChain descends through lone-singleton children until it
// reaches the deepest directory containing real content (files, multiple
// entries, or nothing at all).
func followSingletonChain(dir string) (string, error) {
	for {
		child, isWrapper, err := loneSubdir(dir)
		if err != nil {
			return "", err
		}
		if !isWrapper {
			return dir, nil
		}
		dir = child
	}
}
