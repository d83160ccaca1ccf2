package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// nodeDoc is the document stored for one tree node. Key is absent on the
// root. Children maps the folded child key to the child's record id.
type nodeDoc struct {
	Key      *string    `json:"key,omitempty"`
	Value    *uuid.UUID `json:"value,omitempty"`
	Children childRefs  `json:"children"`
}

// nodeRec is a node document together with its record id.
type nodeRec struct {
	id string
	nodeDoc
}

func (r *nodeRec) key() string {
	if r.Key == nil {
		return ""
	}
	return *r.Key
}

func foldKey(key string) string {
	return strings.ToLower(key)
}

// childRefs is a JSON object that keeps its members in insertion order, so
// children enumerate in the order they were added.
type childRefs struct {
	keys []string
	ids  map[string]string
}

func (c *childRefs) get(key string) (string, bool) {
	id, ok := c.ids[foldKey(key)]
	return id, ok
}

func (c *childRefs) put(key, id string) {
	k := foldKey(key)
	if c.ids == nil {
		c.ids = make(map[string]string)
	}
	if _, ok := c.ids[k]; !ok {
		c.keys = append(c.keys, k)
	}
	c.ids[k] = id
}

func (c *childRefs) remove(key string) {
	k := foldKey(key)
	if _, ok := c.ids[k]; !ok {
		return
	}
	delete(c.ids, k)
	for i, o := range c.keys {
		if o == k {
			c.keys = append(c.keys[:i:i], c.keys[i+1:]...)
			return
		}
	}
}

func (c *childRefs) len() int {
	return len(c.keys)
}

// ordered returns child record ids in insertion order.
func (c *childRefs) ordered() []string {
	out := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.ids[k])
	}
	return out
}

func (c childRefs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c.ids[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *childRefs) UnmarshalJSON(data []byte) error {
	*c = childRefs{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("children: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("children: expected key, got %v", tok)
		}
		var id string
		if err := dec.Decode(&id); err != nil {
			return fmt.Errorf("children: %w", err)
		}
		c.put(key, id)
	}
	_, err = dec.Token()
	return err
}
