package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"

	"github.com/solatis/dbdrill/internal/types"
)

/*
 * Resources file loading and validation.
 *
 * Load parses the YAML document into the catalog data model and then checks
 * every structural invariant in one pass:
 *
 *   1. Resource ids and display names are unique and non-empty.
 *   2. Every link's kind names an existing resource.
 *   3. Every link's search names an existing search on that resource.
 *   4. Link search_params arity equals the target search's params arity.
 *   5. Every JSONPath string parses.
 *
 * Validation is fail-fast: the first violation aborts the load with a
 * ConfigError carrying the resource/link/rule context. Iteration is in sorted
 * id order so the reported failure does not depend on map iteration order.
 */

// UnmarshalYAML decodes the parameter's declared type through the ParamType
// vocabulary, rejecting unknown tokens at load time. An omitted type is raw
// text passthrough.
func (p *SearchParam) UnmarshalYAML(value *yaml.Node) error {
	var obj struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}
	if err := value.Decode(&obj); err != nil {
		return err
	}
	p.Name = obj.Name
	if obj.Type == "" {
		p.Type = types.ParamTypeNone
		return nil
	}
	t, err := types.ParseParamType(obj.Type)
	if err != nil {
		return err
	}
	p.Type = t
	return nil
}

// UnmarshalYAML decodes either a bare column name or a
// { json_path: [column, path] } pair.
func (c *ColumnExpr) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		c.Path = ""
		return value.Decode(&c.Column)
	case yaml.MappingNode:
		var obj struct {
			JSONPath []string `yaml:"json_path"`
		}
		if err := value.Decode(&obj); err != nil {
			return err
		}
		if len(obj.JSONPath) != 2 {
			return fmt.Errorf("json_path must be a [column, path] pair, got %d elements", len(obj.JSONPath))
		}
		c.Column, c.Path = obj.JSONPath[0], obj.JSONPath[1]
		return nil
	default:
		return fmt.Errorf("search parameter must be a column name or a json_path pair")
	}
}

// UnmarshalYAML decodes the { eq: [column_expression, literal] } form, the
// only condition kind currently defined.
func (lc *LinkCondition) UnmarshalYAML(value *yaml.Node) error {
	var obj struct {
		Eq []yaml.Node `yaml:"eq"`
	}
	if err := value.Decode(&obj); err != nil {
		return err
	}
	if len(obj.Eq) != 2 {
		return fmt.Errorf(`"if" condition must be {eq: [column_expression, literal]}`)
	}
	if err := obj.Eq[0].Decode(&lc.Expr); err != nil {
		return err
	}
	return obj.Eq[1].Decode(&lc.Literal)
}

// Load parses and validates a resources document. The returned catalog is
// complete or the error describes the first offending resource/link/rule;
// there is no partially-applied state.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	resources := make(map[types.ResourceID]*Resource)
	if err := dec.Decode(&resources); err != nil {
		return nil, fmt.Errorf("error parsing resources file: %w", err)
	}

	if err := validate(resources); err != nil {
		return nil, err
	}

	ordered := make([]types.ResourceID, 0, len(resources))
	for id := range resources {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return resources[ordered[i]].Name < resources[ordered[j]].Name
	})

	return &Catalog{resources: resources, ordered: ordered}, nil
}

// LoadFile loads a resources document from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening resources file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func validate(resources map[types.ResourceID]*Resource) error {
	ids := make([]types.ResourceID, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Null bodies first: a key with nothing under it decodes to a nil
	// pointer, and every later rule dereferences these.
	for _, id := range ids {
		if id == "" {
			return &types.ConfigError{Rule: "resource identifiers can't be empty"}
		}
		r := resources[id]
		if r == nil {
			return &types.ConfigError{Resource: id, Rule: "resource body can't be null"}
		}
		for _, searchID := range sortedSearchIDs(r) {
			if r.Search[searchID] == nil {
				return &types.ConfigError{Resource: id, Rule: fmt.Sprintf("search %s body can't be null", searchID)}
			}
		}
		for _, linkID := range sortedLinkIDs(r) {
			if r.Links[linkID] == nil {
				return &types.ConfigError{Resource: id, Link: linkID, Rule: "link body can't be null"}
			}
		}
	}

	usedNames := make(map[string]types.ResourceID, len(resources))
	for _, id := range ids {
		r := resources[id]

		if err := validation.ValidateStruct(r,
			validation.Field(&r.Name, validation.Required),
		); err != nil {
			return &types.ConfigError{Resource: id, Rule: "resource display name is required", Err: err}
		}
		if other, ok := usedNames[r.Name]; ok {
			return &types.ConfigError{Resource: id, Rule: fmt.Sprintf("display name %q is already used by resource %s", r.Name, other)}
		}
		usedNames[r.Name] = id

		for _, linkID := range sortedLinkIDs(r) {
			if err := validateLink(resources, id, linkID, r.Links[linkID]); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedSearchIDs(r *Resource) []types.SearchID {
	ids := make([]types.SearchID, 0, len(r.Search))
	for id := range r.Search {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedLinkIDs(r *Resource) []types.LinkID {
	ids := make([]types.LinkID, 0, len(r.Links))
	for id := range r.Links {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func validateLink(resources map[types.ResourceID]*Resource, resourceID types.ResourceID, linkID types.LinkID, link *Link) error {
	target, ok := resources[link.Kind]
	if !ok {
		return &types.ConfigError{
			Resource: resourceID,
			Link:     linkID,
			Rule:     fmt.Sprintf("link references a non existing resource %s", link.Kind),
		}
	}

	targetSearch, ok := target.Search[link.Search]
	if !ok {
		return &types.ConfigError{
			Resource: resourceID,
			Link:     linkID,
			Rule:     fmt.Sprintf("referenced resource %s has no search named %s", link.Kind, link.Search),
		}
	}

	if len(targetSearch.Params) != len(link.SearchParams) {
		return &types.ConfigError{
			Resource: resourceID,
			Link:     linkID,
			Rule: fmt.Sprintf("referenced search %s has %d params but link specifies %d",
				link.Search, len(targetSearch.Params), len(link.SearchParams)),
		}
	}

	for idx, p := range link.SearchParams {
		if !p.IsJSONPath() {
			continue
		}
		if _, err := jp.ParseString(p.Path); err != nil {
			return &types.ConfigError{
				Resource: resourceID,
				Link:     linkID,
				Rule:     fmt.Sprintf("invalid JSONPath expression for search parameter %d", idx),
				Err:      err,
			}
		}
	}

	if link.If != nil && link.If.Expr.IsJSONPath() {
		if _, err := jp.ParseString(link.If.Expr.Path); err != nil {
			return &types.ConfigError{
				Resource: resourceID,
				Link:     linkID,
				Rule:     `link condition ("if") is an invalid JSONPath expression`,
				Err:      err,
			}
		}
	}

	return nil
}
