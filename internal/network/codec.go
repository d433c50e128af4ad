package network

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Reserved node keys. Every other numeric field on a node object is read as
// a metric; other fields are kept in Node.Extra.
const (
	keyID    = "id"
	keyLabel = "label"
	keyType  = "type"
)

// MarshalJSON writes the node as a flat object with metrics as top-level fields.
func (n Node) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(n.Extra)+len(n.Metrics)+3)
	for k, v := range n.Extra {
		obj[k] = v
	}
	for k, v := range n.Metrics {
		obj[k] = v
	}
	obj[keyID] = n.ID
	if n.Label != "" {
		obj[keyLabel] = n.Label
	}
	if n.Type != "" {
		obj[keyType] = n.Type
	}
	return json.Marshal(obj)
}

// UnmarshalJSON reads a flat node object. Ids may be strings or numbers.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{}
	if idRaw, ok := raw[keyID]; ok {
		id, err := decodeID(idRaw)
		if err != nil {
			return fmt.Errorf("decoding node id: %w", err)
		}
		n.ID = id
	}
	if v, ok := raw[keyLabel]; ok {
		_ = json.Unmarshal(v, &n.Label)
	}
	if v, ok := raw[keyType]; ok {
		_ = json.Unmarshal(v, &n.Type)
	}

	for k, v := range raw {
		if k == keyID || k == keyLabel || k == keyType {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			if n.Extra == nil {
				n.Extra = make(map[string]json.RawMessage)
			}
			n.Extra[k] = v
			continue
		}
		n.SetValue(k, f)
	}
	return nil
}

// decodeID accepts a JSON string or number.
func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return "", fmt.Errorf("id must be a string or number, got %s", string(raw))
	}
	return num.String(), nil
}

// nodeLinkData is the node-link document layout produced by networkx.
type nodeLinkData struct {
	Directed   bool              `json:"directed"`
	Multigraph bool              `json:"multigraph"`
	Graph      json.RawMessage   `json:"graph,omitempty"`
	Nodes      []Node            `json:"nodes"`
	Links      []json.RawMessage `json:"links"`
}

type rawLink struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
	Weight *float64        `json:"weight"`
}

// linkJSON is the id-based wire form of a Link.
type linkJSON struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

// MarshalJSON omits the weight of an unweighted link.
func (l Link) MarshalJSON() ([]byte, error) {
	out := linkJSON{Source: l.Source, Target: l.Target}
	if l.HasWeight() {
		w := l.Weight
		out.Weight = &w
	}
	return json.Marshal(out)
}

// UnmarshalJSON records whether a weight was present.
func (l *Link) UnmarshalJSON(data []byte) error {
	var in linkJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*l = Link{Source: in.Source, Target: in.Target}
	if in.Weight != nil {
		l.Weight = *in.Weight
		l.Weighted = true
	}
	return nil
}

// MarshalJSON writes the dataset in node-link form with id-based links.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	nodes := d.Nodes
	if nodes == nil {
		nodes = []Node{}
	}
	links := d.Links
	if links == nil {
		links = []Link{}
	}
	return json.Marshal(struct {
		Directed   bool     `json:"directed"`
		Multigraph bool     `json:"multigraph"`
		Graph      struct{} `json:"graph"`
		Nodes      []Node   `json:"nodes"`
		Links      []Link   `json:"links"`
	}{
		Directed:   d.Directed,
		Multigraph: hasParallelLinks(d.Links),
		Nodes:      nodes,
		Links:      links,
	})
}

// UnmarshalJSON reads a node-link document. Link endpoints may be node ids
// or integer positions into the node list.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var doc nodeLinkData
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	d.Directed = doc.Directed
	d.Nodes = doc.Nodes
	d.Links = make([]Link, 0, len(doc.Links))
	for i, raw := range doc.Links {
		var rl rawLink
		if err := json.Unmarshal(raw, &rl); err != nil {
			return fmt.Errorf("parsing link %d: %w", i, err)
		}
		src, err := d.resolveEndpoint(rl.Source)
		if err != nil {
			return fmt.Errorf("link %d source: %w", i, err)
		}
		dst, err := d.resolveEndpoint(rl.Target)
		if err != nil {
			return fmt.Errorf("link %d target: %w", i, err)
		}
		l := Link{Source: src, Target: dst}
		if rl.Weight != nil {
			l.Weight = *rl.Weight
			l.Weighted = true
		}
		d.Links = append(d.Links, l)
	}
	return nil
}

func (d *Dataset) resolveEndpoint(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var idx int
	if err := json.Unmarshal(raw, &idx); err != nil {
		return "", fmt.Errorf("endpoint must be a node id or index, got %s", string(raw))
	}
	if idx < 0 || idx >= len(d.Nodes) {
		return "", fmt.Errorf("%w: index %s", ErrUnknownEndpoint, strconv.Itoa(idx))
	}
	return d.Nodes[idx].ID, nil
}

func hasParallelLinks(links []Link) bool {
	seen := make(map[[2]string]bool, len(links))
	for _, l := range links {
		key := [2]string{l.Source, l.Target}
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// Decode reads and validates a node-link document.
func Decode(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("parsing node-link data: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// ReadFile reads and validates a node-link JSON file.
func ReadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
