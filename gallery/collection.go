package gallery

import (
	"sort"
	"strconv"

	"github.com/eringen/gallerydesk/api"
)

// KeyFunc extracts the identifier a Collection indexes records by.
type KeyFunc func(api.ImageRecord) string

// ByFileID keys records by their binary file identifier. Missing or
// "undefined" identifiers yield no key.
func ByFileID(r api.ImageRecord) string {
	if !ValidFileID(r.FileID) {
		return ""
	}
	return r.FileID
}

// ByRecordID keys records by their backend record identifier.
func ByRecordID(r api.ImageRecord) string { return r.ID }

// Collection is an ordered set of image records indexed by identifier.
// Order is the order records were first added in.
type Collection struct {
	key   KeyFunc
	order []string
	byID  map[string]api.ImageRecord
}

// NewCollection indexes records with key. A repeated identifier keeps its
// first position and the last record seen. Records without a key each get
// a positional one, so none of them are merged; they cannot be looked up,
// replaced or removed by identifier.
func NewCollection(records []api.ImageRecord, key KeyFunc) *Collection {
	c := &Collection{
		key:  key,
		byID: make(map[string]api.ImageRecord, len(records)),
	}
	for i, r := range records {
		id := key(r)
		if id == "" {
			id = unkeyed(i)
		}
		if _, ok := c.byID[id]; !ok {
			c.order = append(c.order, id)
		}
		c.byID[id] = r
	}
	return c
}

// unkeyed is the positional key of a record without an identifier.
func unkeyed(i int) string {
	return "\x00#" + strconv.Itoa(i)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.order)
}

// Get returns the record with the given identifier.
func (c *Collection) Get(id string) (api.ImageRecord, bool) {
	if id == "" {
		return api.ImageRecord{}, false
	}
	r, ok := c.byID[id]
	return r, ok
}

// Replace swaps in r at the position of the record with the same
// identifier. It reports false and changes nothing if there is none.
func (c *Collection) Replace(r api.ImageRecord) bool {
	id := c.key(r)
	if id == "" {
		return false
	}
	if _, ok := c.byID[id]; !ok {
		return false
	}
	c.byID[id] = r
	return true
}

// Remove drops the record with the given identifier.
func (c *Collection) Remove(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// All returns every record in collection order.
func (c *Collection) All() []api.ImageRecord {
	out := make([]api.ImageRecord, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Filter returns the records matching keep, in collection order.
func (c *Collection) Filter(keep func(api.ImageRecord) bool) []api.ImageRecord {
	var out []api.ImageRecord
	for _, id := range c.order {
		if r := c.byID[id]; keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortNewestFirst orders records by upload time descending. Records with
// equal times keep their relative order.
func SortNewestFirst(records []api.ImageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UploadTime.After(records[j].UploadTime.Time)
	})
}
