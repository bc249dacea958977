// Package shardtree lays company tables out as <FORM>/<KEY>.csv on a blob store
package shardtree

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"brreg/internal/adapters/csvtable"
	"brreg/internal/core/bucket"
	"brreg/internal/core/company"
	"brreg/internal/platform/blob"
	perr "brreg/internal/platform/errors"
)

const ext = ".csv"

// Shard identifies one shard file
type Shard struct {
	Form string
	Key  string
}

// Path returns the store key of the shard
func (s Shard) Path() string { return Path(s.Form, s.Key) }

// ShardCount is a shard with a row count
type ShardCount struct {
	Shard
	Rows int
}

// Part is the slice of a table destined for one shard
type Part struct {
	Shard
	Table *company.Table
}

// Partition groups rows by (form directory, bucket key of the name)
// Rows keep their input order inside a part; parts are sorted by form then key.
// The table must carry the form and name columns
func Partition(t *company.Table) []Part {
	fi, ni := t.Index(company.ColForm), t.Index(company.ColName)
	groups := make(map[Shard]*company.Table)
	for _, r := range t.Rows {
		s := Shard{Form: FormDir(r[fi]), Key: bucket.Key(r[ni])}
		g, ok := groups[s]
		if !ok {
			g = t.Empty()
			groups[s] = g
		}
		g.Rows = append(g.Rows, r)
	}
	out := make([]Part, 0, len(groups))
	for s, g := range groups {
		out = append(out, Part{Shard: s, Table: g})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Shard, out[j].Shard) })
	return out
}

func less(a, b Shard) bool {
	if a.Form != b.Form {
		return a.Form < b.Form
	}
	return a.Key < b.Key
}

// Tree is the sharded registry on top of a blob store
type Tree struct {
	store blob.Store
}

// New wraps a store
func New(store blob.Store) *Tree { return &Tree{store: store} }

// Store exposes the underlying blob store
func (t *Tree) Store() blob.Store { return t.store }

// Location is the human readable root of the tree
func (t *Tree) Location() string { return t.store.Location() }

// FormDir sanitises an organisation-form code for use as a directory name
// Codes are uppercased so "as" and "AS" share AS/; the cell itself is untouched
func FormDir(form string) string {
	form = strings.ToUpper(strings.TrimSpace(form))
	switch form {
	case "":
		return company.Unknown
	case ".", "..":
		return "_"
	}
	return strings.NewReplacer("/", "_", `\`, "_").Replace(form)
}

// Path returns "<FORM>/<KEY>.csv"
func Path(form, key string) string { return FormDir(form) + "/" + key + ext }

// parse splits a store key into a shard; ok is false for anything that is not <dir>/<name>.csv
func parse(key string) (Shard, bool) {
	form, file, found := strings.Cut(key, "/")
	if !found || form == "" || strings.Contains(file, "/") || !strings.HasSuffix(file, ext) {
		return Shard{}, false
	}
	stem := strings.TrimSuffix(file, ext)
	if stem == "" {
		return Shard{}, false
	}
	return Shard{Form: form, Key: stem}, true
}

// All returns every shard in the tree, sorted by form then key
func (t *Tree) All(ctx context.Context) ([]Shard, error) {
	return t.list(ctx, "")
}

func (t *Tree) list(ctx context.Context, prefix string) ([]Shard, error) {
	keys, err := t.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]Shard, 0, len(keys))
	for _, k := range keys {
		if s, ok := parse(k); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// Exists reports whether the tree holds at least one shard
func (t *Tree) Exists(ctx context.Context) (bool, error) {
	all, err := t.All(ctx)
	if err != nil {
		return false, err
	}
	return len(all) > 0, nil
}

// Forms returns the sorted organisation forms that have at least one shard
func (t *Tree) Forms(ctx context.Context) ([]string, error) {
	all, err := t.All(ctx)
	if err != nil {
		return nil, err
	}
	var forms []string
	for _, s := range all {
		if len(forms) == 0 || forms[len(forms)-1] != s.Form {
			forms = append(forms, s.Form)
		}
	}
	return forms, nil
}

// Shards returns the sorted shards of one form
func (t *Tree) Shards(ctx context.Context, form string) ([]Shard, error) {
	return t.list(ctx, FormDir(form)+"/")
}

// Has reports whether a shard file exists
func (t *Tree) Has(ctx context.Context, form, key string) (bool, error) {
	return t.store.Exists(ctx, Path(form, key))
}

// Read decodes one shard
func (t *Tree) Read(ctx context.Context, form, key string) (*company.Table, error) {
	rc, err := t.store.Get(ctx, Path(form, key))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	tb, err := csvtable.Decode(rc)
	if err != nil {
		return nil, perr.WithOp(err, "read "+Path(form, key))
	}
	return tb, nil
}

// Write replaces one shard with tb
func (t *Tree) Write(ctx context.Context, form, key string, tb *company.Table) error {
	if !bucket.Valid(key) {
		return perr.InvalidArgf("invalid shard key %q", key)
	}
	var buf bytes.Buffer
	if err := csvtable.Encode(&buf, tb); err != nil {
		return err
	}
	return t.store.Put(ctx, Path(form, key), &buf)
}

// Count returns the number of rows in a shard
func (t *Tree) Count(ctx context.Context, s Shard) (int, error) {
	rc, err := t.store.Get(ctx, s.Path())
	if err != nil {
		return 0, err
	}
	defer func() { _ = rc.Close() }()
	return csvtable.Count(rc)
}

// ScanNumbers unions the registry-number column of every shard into acc and returns it
// A nil acc starts a fresh set. Unreadable shards are passed to onErr and skipped;
// shards without the column contribute nothing
func (t *Tree) ScanNumbers(ctx context.Context, acc *company.NumberSet, onErr func(Shard, error)) (*company.NumberSet, error) {
	if acc == nil {
		acc = company.NewNumberSet()
	}
	all, err := t.All(ctx)
	if err != nil {
		return acc, err
	}
	for _, s := range all {
		if err := ctx.Err(); err != nil {
			return acc, err
		}
		vals, err := t.column(ctx, s, company.ColNumber)
		if err != nil {
			if onErr != nil {
				onErr(s, err)
			}
			continue
		}
		acc.AddAll(vals)
	}
	return acc, nil
}

func (t *Tree) column(ctx context.Context, s Shard, col string) ([]string, error) {
	rc, err := t.store.Get(ctx, s.Path())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	vals, _, err := csvtable.DecodeColumn(rc, col)
	return vals, err
}

// Lock takes the single-writer lock on the tree
func (t *Tree) Lock(ctx context.Context, owner string) (blob.Release, error) {
	return t.store.Lock(ctx, owner)
}
