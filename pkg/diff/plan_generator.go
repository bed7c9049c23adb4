package diff

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
	"github.com/stripe/pg-schema-inspect/internal/schema"
	"github.com/stripe/pg-schema-inspect/internal/set"
	"github.com/stripe/pg-schema-inspect/pkg/log"
)

// ErrDataLoss is returned when data loss is disallowed and the plan would delete data.
var ErrDataLoss = errors.New("plan deletes data")

type (
	planOptions struct {
		allowDataLoss bool
		logger        log.Logger
	}

	PlanOpt func(opts *planOptions)
)

// WithDataLossDisallowed makes plan generation fail with ErrDataLoss instead of returning a plan that drops tables or
// columns
func WithDataLossDisallowed() PlanOpt {
	return func(opts *planOptions) {
		opts.allowDataLoss = false
	}
}

// WithLogger configures plan generation to use the provided logger instead of the default
func WithLogger(logger log.Logger) PlanOpt {
	return func(opts *planOptions) {
		opts.logger = logger
	}
}

// Generate generates a migration plan that moves a database from the old snapshot to the new one.
//
// Objects that changed and cannot be altered in place are dropped and recreated, together with every object built on
// top of them. Drops follow the old snapshot's drop order and creates follow the new snapshot's create order.
func Generate(old, new *schema.Inspected, opts ...PlanOpt) (Plan, error) {
	options := &planOptions{
		allowDataLoss: true,
		logger:        log.NoopLogger(),
	}
	for _, opt := range opts {
		opt(options)
	}

	statements, err := newPlanner(old, new, options.logger).plan()
	if err != nil {
		return Plan{}, fmt.Errorf("generating plan statements: %w", err)
	}

	hash, err := old.Hash()
	if err != nil {
		return Plan{}, fmt.Errorf("generating current schema hash: %w", err)
	}

	plan := Plan{
		Statements:        statements,
		CurrentSchemaHash: hash,
	}
	if !options.allowDataLoss {
		for _, stmt := range plan.Statements {
			for _, hazard := range stmt.Hazards {
				if hazard.Type == MigrationHazardTypeDeletesData {
					return Plan{}, fmt.Errorf("%w: %s", ErrDataLoss, stmt.DDL)
				}
			}
		}
	}
	return plan, nil
}

type planner struct {
	old, new *schema.Inspected
	logger   log.Logger

	// dropped holds the signatures of graph objects of the old snapshot dropped before the create pass
	dropped *set.Set[string, string]
	// created holds the signatures of graph objects of the new snapshot created in the create pass
	created *set.Set[string, string]
	// alteredTables holds the old version of tables that are altered in place
	alteredTables map[string]*schema.Relation
	// droppedTableObjects holds the signatures of indexes, constraints and policies dropped from surviving tables
	droppedTableObjects *set.Set[string, string]

	statements []Statement
}

func newPlanner(old, new *schema.Inspected, logger log.Logger) *planner {
	return &planner{
		old:                 old,
		new:                 new,
		logger:              logger,
		dropped:             set.NewSet[string](),
		created:             set.NewSet[string](),
		alteredTables:       make(map[string]*schema.Relation),
		droppedTableObjects: set.NewSet[string](),
	}
}

func (p *planner) add(statements ...Statement) {
	p.statements = append(p.statements, statements...)
}

func (p *planner) addDDL(ddl string, hazards ...MigrationHazard) {
	p.add(newStatement(ddl, hazards...))
}

func (p *planner) plan() ([]Statement, error) {
	schemas := diffMaps(p.old.Schemas, p.new.Schemas, structEqual[*schema.NamedSchema])
	extensions := diffMaps(p.old.Extensions, p.new.Extensions, structEqual[*schema.Extension])
	collations := diffMaps(p.old.Collations, p.new.Collations, structEqual[*schema.Collation])
	enums := diffMaps(p.old.Enums, p.new.Enums, (*schema.Enum).Equal)
	sequences := diffMaps(p.old.Sequences, p.new.Sequences, structEqual[*schema.Sequence])
	domains := diffMaps(p.old.Domains, p.new.Domains, structEqual[*schema.Domain])
	selectables := diffMaps(p.old.Selectables, p.new.Selectables, selectableEqual)
	triggers := diffMaps(p.old.Triggers, p.new.Triggers, (*schema.Trigger).Equal)

	for _, s := range schemas.adds {
		p.addDDL(s.CreateStatement())
	}
	for _, e := range extensions.adds {
		p.addDDL(e.CreateStatement())
	}
	for _, d := range extensions.alters {
		p.add(extensionPlanStatements(d.old, d.new)...)
	}
	for _, c := range collations.adds {
		p.addDDL(c.CreateStatement())
	}
	for _, d := range collations.alters {
		p.addDDL(d.old.DropStatement())
		p.addDDL(d.new.CreateStatement())
	}

	for _, e := range enums.adds {
		p.addDDL(e.CreateStatement())
	}
	var rebuiltEnums []objectDiff[*schema.Enum]
	for _, d := range enums.alters {
		if !d.old.CanBeChangedTo(d.new) {
			rebuiltEnums = append(rebuiltEnums, d)
			continue
		}
		statements, err := enumPlanStatements(d.old, d.new, p.old, p.new, nil)
		if err != nil {
			return nil, err
		}
		p.add(statements...)
	}

	for _, s := range sequences.adds {
		if s.OwningTable() == "" {
			p.addDDL(s.CreateStatement(), migrationHazardSequenceCannotTrackDependencies)
		} else {
			p.addDDL(s.CreateStatement())
		}
	}
	for _, d := range domains.adds {
		p.addDDL(d.CreateStatement())
	}
	for _, d := range domains.alters {
		p.addDDL(d.old.DropStatement())
		p.addDDL(d.new.CreateStatement())
	}

	p.markDropped(selectables, triggers, rebuiltEnums)
	detached := p.detachSequences()
	p.dropTableObjects()
	if err := p.dropGraphObjects(); err != nil {
		return nil, fmt.Errorf("dropping objects: %w", err)
	}

	droppedTables := make(map[string]bool)
	for _, sig := range p.dropped.Values() {
		if p.old.Tables.Has(sig) {
			droppedTables[sig] = true
		}
	}
	for _, d := range rebuiltEnums {
		p.logger.Infof("rebuilding %s", d.old.Signature())
		statements, err := enumPlanStatements(d.old, d.new, p.old, p.new, droppedTables)
		if err != nil {
			return nil, err
		}
		p.add(statements...)
	}

	if err := p.createGraphObjects(); err != nil {
		return nil, fmt.Errorf("creating objects: %w", err)
	}

	for _, d := range sequences.alters {
		if !d.old.SameParameters(d.new) {
			p.addDDL(d.new.AlterParametersStatement())
		}
	}
	for _, s := range p.new.Sequences.Values() {
		stmt := s.OwnedByStatement()
		if stmt == "" {
			continue
		}
		if o, ok := p.old.Sequences.Get(s.Signature()); ok && o.SameOwner(s) && !detached.HasKey(s.Signature()) {
			continue
		}
		p.addDDL(stmt)
	}

	for _, e := range enums.deletes {
		p.addDDL(e.DropStatement())
	}

	p.createTableObjects()
	p.syncPrivileges()
	p.syncComments()

	for _, s := range sequences.deletes {
		if p.droppedWithOwner(s) {
			continue
		}
		if s.OwningTable() == "" {
			p.addDDL(s.DropStatement(), migrationHazardSequenceDropped, migrationHazardSequenceCannotTrackDependencies)
		} else {
			p.addDDL(s.DropStatement(), migrationHazardSequenceDropped)
		}
	}
	for _, d := range domains.deletes {
		p.addDDL(d.DropStatement())
	}
	for _, c := range collations.deletes {
		p.addDDL(c.DropStatement())
	}
	for _, e := range extensions.deletes {
		p.addDDL(e.DropStatement(), migrationHazardExtensionDroppedCannotTrackDependencies)
	}
	for _, s := range schemas.deletes {
		p.addDDL(s.DropStatement())
	}

	return p.statements, nil
}

// canAlterInPlace is true if a table can be migrated with alter table statements rather than being recreated.
func canAlterInPlace(old, new *schema.Relation) bool {
	return old.IsTable() && new.IsTable() &&
		old.Kind == new.Kind &&
		old.ParentTable == new.ParentTable &&
		old.PartitionKeyDef == new.PartitionKeyDef &&
		old.ForValues == new.ForValues &&
		old.Persistence == new.Persistence
}

func columnsChanged(old, new *schema.Relation) bool {
	if len(old.Columns) != len(new.Columns) {
		return true
	}
	for i := range old.Columns {
		if !old.Columns[i].Equal(new.Columns[i]) {
			return true
		}
	}
	return false
}

// markDropped computes which graph objects are dropped and recreated. Removed and changed objects are dropped along
// with every object built on top of them, apart from tables, which only follow their partitioned parent.
func (p *planner) markDropped(selectables listDiff[schema.Selectable], triggers listDiff[*schema.Trigger], rebuiltEnums []objectDiff[*schema.Enum]) {
	var queue []string
	for _, s := range selectables.deletes {
		queue = append(queue, s.Signature())
	}
	for _, d := range selectables.alters {
		oldRel, oldIsRel := d.old.(*schema.Relation)
		newRel, newIsRel := d.new.(*schema.Relation)
		if oldIsRel && newIsRel && canAlterInPlace(oldRel, newRel) {
			p.alteredTables[oldRel.Signature()] = oldRel
			if columnsChanged(oldRel, newRel) {
				queue = append(queue, p.nonTableDependents(oldRel)...)
			}
			continue
		}
		queue = append(queue, d.old.Signature())
	}
	for _, t := range triggers.deletes {
		queue = append(queue, t.Signature())
	}
	for _, d := range triggers.alters {
		queue = append(queue, d.old.Signature())
	}
	for _, d := range rebuiltEnums {
		queue = append(queue, p.nonTableDependents(d.old)...)
	}

	for len(queue) > 0 {
		sig := queue[0]
		queue = queue[1:]
		if p.dropped.HasKey(sig) {
			continue
		}
		obj, ok := p.old.GetDependencyBySignature(sig)
		if !ok {
			continue
		}
		p.dropped.Add(sig)
		for _, dependent := range obj.GetDependencies().Dependents {
			depObj, ok := p.old.GetDependencyBySignature(dependent)
			if !ok {
				continue
			}
			if r, ok := depObj.(*schema.Relation); ok && r.IsTable() && !(r.IsPartitioningChild() && r.ParentTable == sig) {
				continue
			}
			queue = append(queue, dependent)
		}
	}

	for _, sig := range p.dropped.Values() {
		delete(p.alteredTables, sig)
		if _, ok := p.new.GetDependencyBySignature(sig); ok {
			p.created.Add(sig)
		}
	}
	for _, s := range selectables.adds {
		p.created.Add(s.Signature())
	}
	for _, t := range triggers.adds {
		p.created.Add(t.Signature())
	}
}

// nonTableDependents returns the direct dependents of obj that must be recreated when obj changes shape.
func (p *planner) nonTableDependents(obj schema.GraphObject) []string {
	var out []string
	for _, sig := range obj.GetDependencies().Dependents {
		dep, ok := p.old.GetDependencyBySignature(sig)
		if !ok {
			continue
		}
		switch d := dep.(type) {
		case *schema.Trigger:
			continue
		case *schema.Relation:
			if d.IsTable() {
				continue
			}
		}
		out = append(out, sig)
	}
	return out
}

func (p *planner) survives(table string) bool {
	return p.old.Tables.Has(table) && !p.dropped.HasKey(table)
}

// detachSequences releases kept sequences from an owner that changes or is dropped, since dropping the owning table
// or column drops the sequence too.
func (p *planner) detachSequences() *set.Set[string, string] {
	detached := set.NewSet[string]()
	for _, s := range p.old.Sequences.Values() {
		n, ok := p.new.Sequences.Get(s.Signature())
		if !ok || s.OwningTable() == "" {
			continue
		}
		if s.SameOwner(n) && !p.dropped.HasKey(s.OwningTable()) {
			continue
		}
		p.addDDL(fmt.Sprintf("alter sequence %s owned by none;", s.Signature()))
		detached.Add(s.Signature())
	}
	return detached
}

// droppedWithOwner is true if the owning table or column of a deleted sequence is dropped, which drops the sequence.
func (p *planner) droppedWithOwner(s *schema.Sequence) bool {
	table := s.OwningTable()
	if table == "" {
		return false
	}
	if p.dropped.HasKey(table) {
		return true
	}
	n, ok := p.new.Tables.Get(table)
	if !ok {
		return true
	}
	_, ok = n.Column(s.ColumnName)
	return !ok
}

// dropTableObjects drops the removed or changed indexes, constraints and policies of tables that are not dropped, and
// foreign keys referencing dropped tables.
func (p *planner) dropTableObjects() {
	p.syncRowSecurity(false)
	for _, pol := range p.old.Policies.Values() {
		if !p.survives(pol.Table()) {
			continue
		}
		if n, ok := p.new.Policies.Get(pol.Signature()); ok && pol.Equal(n) {
			continue
		}
		p.addDDL(pol.DropStatement(), policyRemovedHazard(pol))
		p.droppedTableObjects.Add(pol.Signature())
	}

	changedIndexes := set.NewSet[string]()
	for _, idx := range p.old.Indexes.Values() {
		if n, ok := p.new.Indexes.Get(idx.Signature()); !ok || !idx.Equal(n) ||
			p.usesRecreatedColumn(idx.Table(), idx.KeyColumns, idx.IncludedColumns) {
			changedIndexes.Add(idx.Signature())
		}
	}

	// Foreign keys go first: they may depend on unique indexes dropped below.
	for _, fks := range []bool{true, false} {
		for _, c := range p.old.Constraints.Values() {
			if c.IsFK() != fks {
				continue
			}
			referenceBroken := c.IsFK() && c.ForeignTable() != c.Table() && p.dropped.HasKey(c.ForeignTable())
			if c.IsFK() && (p.usesRecreatedColumn(c.Table(), c.FKColumnsLocal) ||
				p.usesRecreatedColumn(c.ForeignTable(), c.FKColumnsForeign)) {
				referenceBroken = true
			}
			if !p.survives(c.Table()) && !referenceBroken {
				continue
			}
			n, ok := p.new.Constraints.Get(c.Signature())
			if ok && (c.Equal(n) || c.ValidatedBy(n)) && !referenceBroken && !changedIndexes.HasKey(c.IndexSignature()) {
				continue
			}
			if !c.UsesIndex() {
				p.addDDL(c.DropStatement())
				p.droppedTableObjects.Add(c.Signature())
				continue
			}
			// The backing index goes with the constraint.
			p.addDDL(c.DropStatement(), migrationHazardIndexDroppedAcquiresLock, migrationHazardIndexDroppedQueryPerf)
			p.droppedTableObjects.Add(c.Signature(), c.IndexSignature())
		}
	}

	for _, idx := range p.old.Indexes.Values() {
		if idx.IsExclusion || !p.survives(idx.Table()) || !changedIndexes.HasKey(idx.Signature()) ||
			p.droppedTableObjects.HasKey(idx.Signature()) {
			continue
		}
		p.addDDL(idx.DropStatement(), migrationHazardIndexDroppedQueryPerf)
		p.droppedTableObjects.Add(idx.Signature())
	}
}

// usesRecreatedColumn is true if one of the columns of an altered table is dropped and added back by the plan.
func (p *planner) usesRecreatedColumn(table string, columns ...[]string) bool {
	old, ok := p.alteredTables[table]
	if !ok {
		return false
	}
	new, ok := p.new.Tables.Get(table)
	if !ok {
		return false
	}
	for _, names := range columns {
		for _, name := range names {
			o, ok := old.Column(name)
			if !ok {
				continue
			}
			if n, ok := new.Column(name); ok && columnRecreated(o, n) {
				return true
			}
		}
	}
	return false
}

func (p *planner) dropGraphObjects() error {
	order, err := p.old.DependencyOrder(schema.WithDropOrder(), schema.WithoutEnums())
	if err != nil {
		return err
	}
	for _, sig := range order {
		if !p.dropped.HasKey(sig) {
			continue
		}
		obj, _ := p.old.GetDependencyBySignature(sig)
		if r, ok := obj.(*schema.Relation); ok && r.IsTable() && r.ContainsData() {
			stmt := newStatement(r.DropStatement(), migrationHazardTableDropped)
			stmt.Timeout = statementTimeoutTableDrop
			p.add(stmt)
			continue
		}
		if p.created.HasKey(sig) {
			p.addDDL(obj.DropStatement())
			continue
		}
		p.logger.Infof("dropping %s", sig)
		if f, ok := obj.(*schema.Function); ok && !strings.EqualFold(f.Language, "sql") {
			p.addDDL(f.DropStatement(), migrationHazardFunctionDroppedCannotTrackDependencies)
			continue
		}
		p.addDDL(obj.DropStatement())
	}
	return nil
}

func (p *planner) createGraphObjects() error {
	order, err := p.new.DependencyOrder(schema.WithoutEnums())
	if err != nil {
		return err
	}
	for _, sig := range order {
		obj, _ := p.new.GetDependencyBySignature(sig)
		if old, ok := p.alteredTables[sig]; ok {
			p.alterTable(old, obj.(*schema.Relation))
			continue
		}
		if !p.created.HasKey(sig) {
			continue
		}
		switch o := obj.(type) {
		case *schema.Function:
			if !strings.EqualFold(o.Language, "sql") {
				p.addDDL(o.CreateStatement(), migrationHazardFunctionCannotTrackDependencies)
				continue
			}
		case *schema.Relation:
			if o.IsTable() {
				p.addDDL(o.CreateStatement())
				if o.RowSecurity {
					p.addDDL(o.AlterRLSStatement())
				}
				if o.ForceRowSecurity {
					p.addDDL(o.AlterForceRLSStatement())
				}
				continue
			}
		}
		p.addDDL(obj.CreateStatement())
	}
	return nil
}

func (p *planner) alterTable(old, new *schema.Relation) {
	table := new.Signature()
	if new.IsAlterable() {
		for _, c := range new.Columns {
			if _, ok := old.Column(c.Name); !ok && !c.IsInherited {
				p.addDDL(new.AlterTableStatement(c.AddColumnClause()))
			}
		}
		for _, c := range old.Columns {
			if _, ok := new.Column(c.Name); !ok && !c.IsInherited {
				p.addDDL(new.AlterTableStatement(c.DropColumnClause()), migrationHazardColumnDropped)
			}
		}
		for _, c := range new.Columns {
			if o, ok := old.Column(c.Name); ok && !c.IsInherited {
				p.add(alterColumnPlanStatements(table, o, c)...)
			}
		}
	}
}

// syncRowSecurity toggles row security on tables altered in place. Row security is turned off before any policy is
// dropped and turned on once every policy exists.
func (p *planner) syncRowSecurity(enable bool) {
	for _, new := range p.new.Tables.Values() {
		old, ok := p.alteredTables[new.Signature()]
		if !ok {
			continue
		}
		if old.RowSecurity != new.RowSecurity && new.RowSecurity == enable {
			p.addDDL(new.AlterRLSStatement(), rlsHazard(new.RowSecurity))
		}
		if old.ForceRowSecurity != new.ForceRowSecurity && new.ForceRowSecurity == enable {
			p.addDDL(new.AlterForceRLSStatement(), forceRLSHazard(new.ForceRowSecurity))
		}
	}
}

// needsCreate is true if a table object of the new snapshot is missing once drops are done: it is new, it changed,
// it was dropped from a surviving table, or its table is created.
func (p *planner) needsCreate(sig, table string, unchanged bool) bool {
	return !unchanged || p.created.HasKey(table) || p.droppedTableObjects.HasKey(sig)
}

// tableExisted is true if the table is not new to the plan, so building on it takes locks on live data.
func (p *planner) tableExisted(table string) bool {
	return p.old.Tables.Has(table) && !p.created.HasKey(table)
}

func (p *planner) createTableObjects() {
	// Indexes of partitioned tables go first. Built later, they would adopt a matching local index of a partition
	// instead of creating their own.
	indexes := p.new.Indexes.Values()
	sort.SliceStable(indexes, func(i, j int) bool {
		return p.onPartitionedTable(indexes[i]) && !p.onPartitionedTable(indexes[j])
	})
	builtByConstraint := set.NewSet[string]()
	for _, c := range p.new.Constraints.Values() {
		if c.UsesIndex() && p.partitioned(c.Table()) {
			builtByConstraint.Add(c.IndexSignature())
		}
	}
	for _, idx := range indexes {
		if idx.IsExclusion || builtByConstraint.HasKey(idx.Signature()) {
			continue
		}
		o, ok := p.old.Indexes.Get(idx.Signature())
		if !p.needsCreate(idx.Signature(), idx.Table(), ok && o.Equal(idx)) {
			continue
		}
		if !p.tableExisted(idx.Table()) {
			p.addDDL(idx.CreateStatement())
			continue
		}
		stmt := newStatement(idx.CreateStatement(), migrationHazardIndexBuild)
		stmt.Timeout = statementTimeoutIndexBuild
		p.add(stmt)
	}

	for _, fks := range []bool{false, true} {
		for _, c := range p.new.Constraints.Values() {
			if c.IsFK() != fks {
				continue
			}
			o, ok := p.old.Constraints.Get(c.Signature())
			if ok && o.ValidatedBy(c) && !p.needsCreate(c.Signature(), c.Table(), true) {
				p.addDDL(c.ValidateStatement())
				continue
			}
			if !p.needsCreate(c.Signature(), c.Table(), ok && o.Equal(c)) {
				continue
			}
			if c.IsFK() && p.tableExisted(c.Table()) {
				p.addDDL(c.CreateStatement(), migrationHazardForeignKeyAdded)
				continue
			}
			if c.UsesIndex() && p.partitioned(c.Table()) {
				p.addConstraintWithIndex(c)
				continue
			}
			p.addDDL(c.CreateStatement())
		}
	}

	for _, pol := range p.new.Policies.Values() {
		o, ok := p.old.Policies.Get(pol.Signature())
		if !p.needsCreate(pol.Signature(), pol.Table(), ok && o.Equal(pol)) {
			continue
		}
		if p.tableExisted(pol.Table()) {
			p.addDDL(pol.CreateStatement(), policyAddedHazard(pol))
			continue
		}
		p.addDDL(pol.CreateStatement())
	}
	p.syncRowSecurity(true)
}

func (p *planner) partitioned(table string) bool {
	t, ok := p.new.Tables.Get(table)
	return ok && t.IsPartitioned()
}

func (p *planner) onPartitionedTable(idx *schema.Index) bool {
	return p.partitioned(idx.Table())
}

func (p *planner) addConstraintWithIndex(c *schema.Constraint) {
	if !p.tableExisted(c.Table()) {
		p.addDDL(c.CreateWithIndexStatement())
		return
	}
	stmt := newStatement(c.CreateWithIndexStatement(), migrationHazardIndexBuild)
	stmt.Timeout = statementTimeoutIndexBuild
	p.add(stmt)
}

// newHasObject is true if an object with the given signature exists in the new snapshot and is not recreated by the
// plan.
func (p *planner) newHasObject(sig string) bool {
	if p.created.HasKey(sig) {
		return false
	}
	return p.new.Relations.Has(sig) || p.new.Functions.Has(sig) || p.new.Sequences.Has(sig) ||
		p.new.Schemas.Has(sig) || p.new.Enums.Has(sig) || p.new.Domains.Has(sig)
}

func (p *planner) syncPrivileges() {
	// A privilege whose grant option changed is revoked and granted again.
	for _, priv := range p.old.Privileges.Values() {
		n, ok := p.new.Privileges.Get(priv.Signature())
		if (!ok || !structEqual(priv, n)) && p.newHasObject(priv.ObjectSignature()) {
			p.addDDL(priv.DropStatement(), migrationHazardPrivilegeRevoked)
		}
	}
	for _, priv := range p.new.Privileges.Values() {
		if p.created.HasKey(priv.ObjectSignature()) {
			p.addDDL(priv.CreateStatement())
			continue
		}
		if o, ok := p.old.Privileges.Get(priv.Signature()); !ok || !structEqual(o, priv) {
			p.addDDL(priv.CreateStatement(), migrationHazardPrivilegeGranted)
		}
	}
}

// commentOwner is the signature of the object a comment is removed with.
func commentOwner(c *schema.Comment) string {
	if c.IdentityArguments != nil {
		return c.Target()
	}
	return pgidentifier.Qualify(c.Schema, c.Name)
}

func (p *planner) syncComments() {
	for _, c := range p.old.Comments.Values() {
		if p.new.Comments.Has(c.Signature()) || !p.newHasObject(commentOwner(c)) {
			continue
		}
		if c.ColumnName != "" {
			r, ok := p.new.Relations.Get(commentOwner(c))
			if !ok {
				continue
			}
			if _, ok := r.Column(c.ColumnName); !ok {
				continue
			}
		}
		p.addDDL(c.DropStatement())
	}
	for _, c := range p.new.Comments.Values() {
		o, ok := p.old.Comments.Get(c.Signature())
		if ok && structEqual(o, c) && !p.created.HasKey(commentOwner(c)) {
			continue
		}
		p.addDDL(c.CreateStatement())
	}
}
