package directory

import (
	"github.com/tidwall/gjson"
)

const (
	ChairpersonContactField = "chairperson_contact"
	specialCommitteesKey    = "special_committees"
)

// memberCollection names a container of people on a record. Without roles
// the container itself is the array; with roles each role key of the
// container holds an array.
type memberCollection struct {
	key   string
	roles []string
}

// memberCollections is the fixed set of paths that carry contacts. Other
// nested objects are left alone.
var memberCollections = []memberCollection{
	{key: "officials"},
	{key: "secretariat_officials"},
	{key: "house_members"},
	{key: "party_list_representatives"},
	{key: "house_committees", roles: []string{"chairpersons", "vice_chairpersons"}},
}

// Normalize cleans every contact field of every record in place. Records
// that are not objects, and containers of the wrong type, are skipped.
func (d *Document) Normalize() error {
	root := gjson.ParseBytes(d.raw)
	if !root.IsArray() {
		d.log.Warnw("document is not an array, nothing to normalize")
		return nil
	}

	records := len(root.Array())
	d.counts.Records = records
	for i := 0; i < records; i++ {
		recordPath := indexPath("", i)
		if !gjson.GetBytes(d.raw, recordPath).IsObject() {
			continue
		}
		if err := d.normalizeRecord(recordPath); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) normalizeRecord(recordPath string) error {
	for _, c := range memberCollections {
		containerPath := joinPath(recordPath, c.key)
		if len(c.roles) == 0 {
			if err := d.applyEach(containerPath, false); err != nil {
				return err
			}
			continue
		}
		if !gjson.GetBytes(d.raw, containerPath).IsObject() {
			continue
		}
		for _, role := range c.roles {
			if err := d.applyEach(joinPath(containerPath, role), false); err != nil {
				return err
			}
		}
	}

	if err := d.applyEach(joinPath(recordPath, specialCommitteesKey), true); err != nil {
		return err
	}

	return d.ApplyContactField(recordPath, DefaultContactField)
}

// applyEach cleans the contact of every element of the array at path.
// Committees additionally have their chairperson contact cleaned first.
func (d *Document) applyEach(path string, committees bool) error {
	arr := gjson.GetBytes(d.raw, path)
	if !arr.IsArray() {
		return nil
	}

	n := len(arr.Array())
	for i := 0; i < n; i++ {
		elemPath := indexPath(path, i)
		if !gjson.GetBytes(d.raw, elemPath).IsObject() {
			continue
		}
		if committees {
			if err := d.ApplyContactField(elemPath, ChairpersonContactField); err != nil {
				return err
			}
		}
		if err := d.ApplyContactField(elemPath, DefaultContactField); err != nil {
			return err
		}
	}
	return nil
}
