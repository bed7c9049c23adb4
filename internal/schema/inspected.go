package schema

// Inspected is a snapshot of the schema objects of a database. Every collection is keyed by signature and iterates in
// load order. Once loaded, an Inspected must be treated as read-only; FilterBySchema returns a new snapshot.
type Inspected struct {
	Schemas *OrderedMap[*NamedSchema] `yaml:"schemas"`

	// Relations holds Tables, Views, MaterializedViews and CompositeTypes.
	Relations         *OrderedMap[*Relation] `yaml:"-"`
	Tables            *OrderedMap[*Relation] `yaml:"tables"`
	Views             *OrderedMap[*Relation] `yaml:"views"`
	MaterializedViews *OrderedMap[*Relation] `yaml:"materialized_views"`
	CompositeTypes    *OrderedMap[*Relation] `yaml:"composite_types"`
	Functions         *OrderedMap[*Function] `yaml:"functions"`
	// Selectables holds Relations and Functions.
	Selectables *OrderedMap[Selectable] `yaml:"-"`

	Indexes     *OrderedMap[*Index]      `yaml:"indexes"`
	Constraints *OrderedMap[*Constraint] `yaml:"constraints"`
	Sequences   *OrderedMap[*Sequence]   `yaml:"sequences"`
	Enums       *OrderedMap[*Enum]       `yaml:"enums"`
	Domains     *OrderedMap[*Domain]     `yaml:"domains"`
	Extensions  *OrderedMap[*Extension]  `yaml:"extensions"`
	Privileges  *OrderedMap[*Privilege]  `yaml:"privileges"`
	Policies    *OrderedMap[*Policy]     `yaml:"rlspolicies"`
	Collations  *OrderedMap[*Collation]  `yaml:"collations"`
	Triggers    *OrderedMap[*Trigger]    `yaml:"triggers"`
	Comments    *OrderedMap[*Comment]    `yaml:"comments"`

	// Unresolved holds dependency edges whose target was expected to be loaded but was not.
	Unresolved []UnresolvedDependency `yaml:"unresolved,omitempty"`
}

func newInspected() *Inspected {
	return &Inspected{
		Schemas:           NewOrderedMap[*NamedSchema](),
		Relations:         NewOrderedMap[*Relation](),
		Tables:            NewOrderedMap[*Relation](),
		Views:             NewOrderedMap[*Relation](),
		MaterializedViews: NewOrderedMap[*Relation](),
		CompositeTypes:    NewOrderedMap[*Relation](),
		Functions:         NewOrderedMap[*Function](),
		Selectables:       NewOrderedMap[Selectable](),
		Indexes:           NewOrderedMap[*Index](),
		Constraints:       NewOrderedMap[*Constraint](),
		Sequences:         NewOrderedMap[*Sequence](),
		Enums:             NewOrderedMap[*Enum](),
		Domains:           NewOrderedMap[*Domain](),
		Extensions:        NewOrderedMap[*Extension](),
		Privileges:        NewOrderedMap[*Privilege](),
		Policies:          NewOrderedMap[*Policy](),
		Collations:        NewOrderedMap[*Collation](),
		Triggers:          NewOrderedMap[*Trigger](),
		Comments:          NewOrderedMap[*Comment](),
	}
}

func (i *Inspected) addRelation(r *Relation) {
	if r.Indexes == nil {
		r.Indexes = NewOrderedMap[*Index]()
	}
	if r.Constraints == nil {
		r.Constraints = NewOrderedMap[*Constraint]()
	}
	sig := r.Signature()
	i.Relations.Set(sig, r)
	i.Selectables.Set(sig, r)
	switch r.Kind {
	case RelationKindTable, RelationKindPartitionedTable:
		i.Tables.Set(sig, r)
	case RelationKindView:
		i.Views.Set(sig, r)
	case RelationKindMaterializedView:
		i.MaterializedViews.Set(sig, r)
	case RelationKindCompositeType:
		i.CompositeTypes.Set(sig, r)
	}
}

func (i *Inspected) addFunction(f *Function) {
	sig := f.Signature()
	i.Functions.Set(sig, f)
	i.Selectables.Set(sig, f)
}

// attachTableObjects populates the per-table index and constraint maps. Objects whose table is not loaded are left
// unattached.
func (i *Inspected) attachTableObjects() {
	for _, idx := range i.Indexes.Values() {
		if r, ok := i.Relations.Get(idx.Table()); ok {
			r.Indexes.Set(idx.Signature(), idx)
		}
	}
	for _, con := range i.Constraints.Values() {
		if r, ok := i.Relations.Get(con.Table()); ok {
			r.Constraints.Set(con.Signature(), con)
		}
	}
}

// GetDependencyBySignature resolves a signature against every kind of object in the dependency graph.
func (i *Inspected) GetDependencyBySignature(signature string) (GraphObject, bool) {
	if s, ok := i.Selectables.Get(signature); ok {
		return s, true
	}
	if e, ok := i.Enums.Get(signature); ok {
		return e, true
	}
	if t, ok := i.Triggers.Get(signature); ok {
		return t, true
	}
	return nil, false
}

// GraphObjects returns every object in the dependency graph: selectables, then enums, then triggers.
func (i *Inspected) GraphObjects() []GraphObject {
	var objs []GraphObject
	for _, s := range i.Selectables.Values() {
		objs = append(objs, s)
	}
	for _, e := range i.Enums.Values() {
		objs = append(objs, e)
	}
	for _, t := range i.Triggers.Values() {
		objs = append(objs, t)
	}
	return objs
}

// EnumColumns returns, per table signature, the columns of the table typed with the given enum.
func (i *Inspected) EnumColumns(enumSignature string) map[string][]*Column {
	out := make(map[string][]*Column)
	for _, r := range i.Tables.Values() {
		for _, c := range r.Columns {
			if c.Enum == enumSignature {
				out[r.Signature()] = append(out[r.Signature()], c)
			}
		}
	}
	return out
}
