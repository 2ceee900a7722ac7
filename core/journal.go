package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/okvee/rpctoast/common"
	"github.com/okvee/rpctoast/types"
)

type fsJournal struct {
	dirPath string
}

var _ Journal = (*fsJournal)(nil)

func NewFsJournal(dirPath string) (Journal, error) {
	journal := &fsJournal{
		dirPath: dirPath,
	}
	if err := os.Mkdir(journal.dirPath, os.ModePerm); common.IgnoreErr(err, os.ErrExist) != nil {
		return nil, err
	}

	return journal, nil
}

func (j *fsJournal) Append(ctx context.Context, rec *types.InvocationRecord) error {
	if len(rec.ID) == 0 {
		return fmt.Errorf("cannot journal invocation without id")
	}

	marshaled, err := json.MarshalIndent(&rec, "", " ")
	if err != nil {
		return err
	}

	file, err := os.OpenFile(j.recPath(rec.ID), os.O_WRONLY|os.O_CREATE, os.ModePerm)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write(marshaled)
	return err
}

func (j *fsJournal) Get(ctx context.Context, id types.InvocationID) (*types.InvocationRecord, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("empty invocation id provided")
	}

	file, err := os.Open(j.recPath(id))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rec types.InvocationRecord
	if err := json.NewDecoder(file).Decode(&rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

// List returns every journaled record ordered by start time. Entries that
// fail to decode are skipped rather than failing the whole listing.
func (j *fsJournal) List(ctx context.Context) ([]*types.InvocationRecord, error) {
	entries, err := os.ReadDir(j.dirPath)
	if err != nil {
		return nil, err
	}

	var ret []*types.InvocationRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := types.InvocationID(strings.TrimSuffix(entry.Name(), ".json"))
		rec, err := j.Get(ctx, id)
		if err != nil {
			continue
		}
		ret = append(ret, rec)
	}

	sort.Slice(ret, func(a, b int) bool {
		return ret[a].StartedAt < ret[b].StartedAt
	})
	return ret, nil
}

func (j *fsJournal) Erase(ctx context.Context, id types.InvocationID) error {
	err := os.Remove(j.recPath(id))
	return common.IgnoreErr(err, os.ErrNotExist)
}

func (j *fsJournal) Clear(ctx context.Context) error {
	recs, err := j.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := j.Erase(ctx, rec.ID); err != nil {
			return err
		}
	}
	return nil
}

func (j *fsJournal) recPath(id types.InvocationID) string {
	return path.Join(j.dirPath, fmt.Sprintf("%s.json", id))
}
