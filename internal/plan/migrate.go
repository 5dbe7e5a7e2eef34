package plan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"reorg/internal/fileutil"
)

// Migrate plans moving (or copying) the given sources into target using one
// of the migration strategies. The plan opens with a CreateDir for the
// target so apply runs never race its creation.
func (p *Planner) Migrate(sources []string, target string, mode Mode, copyItems bool) (*Result, error) {
	res := &Result{}
	ops := []Operation{createDirOp(target)}

	transfer := moveOp
	if copyItems {
		transfer = copyOp
	}

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, err
		}
		switch mode {
		case ModePreserve:
			if err := p.migratePreserve(src, info, target, transfer, &ops, res); err != nil {
				return nil, err
			}
		case ModeFlat:
			if err := p.migrateFlat(src, info, target, transfer, &ops, res); err != nil {
				return nil, err
			}
		case ModeDirect:
			ops = append(ops, transfer(src, filepath.Join(target, filepath.Base(src))))
			if info.IsDir() {
				res.MovedDirs++
			} else {
				res.MovedFiles++
			}
		default:
			return nil, fmt.Errorf("migrate: unsupported mode %q", mode)
		}
	}

	res.Plan = newPlan(target, mode, ops)
	return res, nil
}

// migratePreserve enumerates every file under src and plans a transfer to
// target keyed by the path relative to src's parent, so the source's own
// directory name survives the move.
func (p *Planner) migratePreserve(src string, info fs.FileInfo, target string, transfer func(string, string) Operation, ops *[]Operation, res *Result) error {
	base := filepath.Dir(src)
	if !info.IsDir() {
		*ops = append(*ops, transfer(src, filepath.Join(target, filepath.Base(src))))
		res.MovedFiles++
		return nil
	}
	return p.walkPreserve(src, base, target, transfer, ops, res)
}

func (p *Planner) walkPreserve(dir, base, target string, transfer func(string, string) Operation, ops *[]Operation, res *Result) error {
	entries, err := fileutil.SortedEntries(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if p.excluded(full) {
				continue
			}
			if err := p.walkPreserve(full, base, target, transfer, ops, res); err != nil {
				return err
			}
			continue
		}
		rel, err := filepath.Rel(base, full)
		if err != nil {
			return err
		}
		*ops = append(*ops, transfer(full, filepath.Join(target, rel)))
		res.MovedFiles++
	}
	return nil
}

// migrateFlat plans transfers for src's immediate file children only,
// landing each directly under target.
func (p *Planner) migrateFlat(src string, info fs.FileInfo, target string, transfer func(string, string) Operation, ops *[]Operation, res *Result) error {
	if !info.IsDir() {
		*ops = append(*ops, transfer(src, filepath.Join(target, filepath.Base(src))))
		res.MovedFiles++
		return nil
	}
	entries, err := fileutil.SortedEntries(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		*ops = append(*ops, transfer(filepath.Join(src, entry.Name()), filepath.Join(target, entry.Name())))
		res.MovedFiles++
	}
	return nil
}
