package schema

import (
	"fmt"
	"strings"

	"github.com/stripe/pg-schema-inspect/internal/pgidentifier"
)

type NamedSchema struct {
	Name string `yaml:"schema"`
}

func (n *NamedSchema) GetSchema() string {
	return n.Name
}

func (n *NamedSchema) GetName() string {
	return n.Name
}

func (n *NamedSchema) Signature() string {
	return pgidentifier.Qualify(n.Name, "")
}

func (n *NamedSchema) CreateStatement() string {
	return fmt.Sprintf("create schema if not exists %s;", n.Signature())
}

func (n *NamedSchema) DropStatement() string {
	return fmt.Sprintf("drop schema if exists %s;", n.Signature())
}

// Sequence is a standalone sequence, optionally owned by a table column.
type Sequence struct {
	Schema     string `yaml:"schema"`
	Name       string `yaml:"name"`
	TableName  string `yaml:"table_name,omitempty"`
	ColumnName string `yaml:"column_name,omitempty"`

	DataType   string `yaml:"data_type,omitempty"`
	StartValue int64  `yaml:"start_value"`
	Increment  int64  `yaml:"increment"`
	MinValue   int64  `yaml:"min_value"`
	MaxValue   int64  `yaml:"max_value"`
	CacheSize  int64  `yaml:"cache_size"`
	Cycle      bool   `yaml:"cycle"`
}

func (s *Sequence) GetSchema() string {
	return s.Schema
}

func (s *Sequence) GetName() string {
	return s.Name
}

func (s *Sequence) Signature() string {
	return pgidentifier.Qualify(s.Schema, s.Name)
}

// CreateStatement creates the sequence unowned. Ownership is attached once the owning column exists.
func (s *Sequence) CreateStatement() string {
	return fmt.Sprintf("create sequence %s%s;", s.Signature(), s.parameters())
}

func (s *Sequence) parameters() string {
	if s.DataType == "" {
		return ""
	}
	cycle := "no cycle"
	if s.Cycle {
		cycle = "cycle"
	}
	return fmt.Sprintf(" as %s increment by %d minvalue %d maxvalue %d start with %d cache %d %s",
		s.DataType, s.Increment, s.MinValue, s.MaxValue, s.StartValue, s.CacheSize, cycle)
}

// SameParameters reports whether the two sequences generate the same values.
func (s *Sequence) SameParameters(other *Sequence) bool {
	return s.DataType == other.DataType &&
		s.StartValue == other.StartValue &&
		s.Increment == other.Increment &&
		s.MinValue == other.MinValue &&
		s.MaxValue == other.MaxValue &&
		s.CacheSize == other.CacheSize &&
		s.Cycle == other.Cycle
}

// AlterParametersStatement moves an existing sequence to these parameters. The current value is kept.
func (s *Sequence) AlterParametersStatement() string {
	return fmt.Sprintf("alter sequence %s%s;", s.Signature(), s.parameters())
}

// SameOwner reports whether both sequences are owned by the same column.
func (s *Sequence) SameOwner(other *Sequence) bool {
	return s.TableName == other.TableName && s.ColumnName == other.ColumnName
}

func (s *Sequence) DropStatement() string {
	return fmt.Sprintf("drop sequence if exists %s;", s.Signature())
}

// OwningTable is the signature of the owning table, or empty if the sequence is not owned.
func (s *Sequence) OwningTable() string {
	if s.TableName == "" {
		return ""
	}
	return pgidentifier.Qualify(s.Schema, s.TableName)
}

// OwnedByStatement attaches the sequence to its owning column. It is empty for sequences without an owner.
func (s *Sequence) OwnedByStatement() string {
	if s.TableName == "" || s.ColumnName == "" {
		return ""
	}
	return fmt.Sprintf(
		"alter sequence %s owned by %s;",
		s.Signature(), pgidentifier.QualifyWithTable(s.Schema, s.TableName, s.ColumnName),
	)
}

type DomainCheck struct {
	Name       string `yaml:"name"`
	Definition string `yaml:"definition"`
}

type Domain struct {
	Schema    string        `yaml:"schema"`
	Name      string        `yaml:"name"`
	DataType  string        `yaml:"data_type"`
	Collation string        `yaml:"collation,omitempty"`
	Default   string        `yaml:"default,omitempty"`
	NotNull   bool          `yaml:"not_null"`
	Checks    []DomainCheck `yaml:"checks,omitempty"`
}

func (d *Domain) GetSchema() string {
	return d.Schema
}

func (d *Domain) GetName() string {
	return d.Name
}

func (d *Domain) Signature() string {
	return pgidentifier.Qualify(d.Schema, d.Name)
}

func (d *Domain) CreateStatement() string {
	lines := []string{fmt.Sprintf("create domain %s", d.Signature()), "as " + d.DataType}
	if d.Collation != "" {
		lines = append(lines, "collate "+pgidentifier.QuoteIdentifier(d.Collation))
	}
	if d.Default != "" {
		lines = append(lines, "default "+d.Default)
	}
	if d.NotNull {
		lines = append(lines, "not null")
	}
	for _, c := range d.Checks {
		lines = append(lines, fmt.Sprintf("constraint %s %s", pgidentifier.QuoteIdentifier(c.Name), c.Definition))
	}
	return strings.Join(lines, "\n") + ";"
}

func (d *Domain) DropStatement() string {
	return fmt.Sprintf("drop domain %s;", d.Signature())
}

// Extension is keyed by name only: an extension can be installed once per database.
type Extension struct {
	Schema  string `yaml:"schema"`
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
}

func (e *Extension) GetSchema() string {
	return e.Schema
}

func (e *Extension) GetName() string {
	return e.Name
}

func (e *Extension) Signature() string {
	return pgidentifier.QuoteIdentifier(e.Name)
}

func (e *Extension) CreateStatement() string {
	stmt := fmt.Sprintf(
		"create extension if not exists %s with schema %s",
		pgidentifier.QuoteIdentifier(e.Name), pgidentifier.QuoteIdentifier(e.Schema),
	)
	if e.Version != "" {
		stmt += " version " + pgidentifier.QuoteLiteral(e.Version)
	}
	return stmt + ";"
}

func (e *Extension) DropStatement() string {
	return fmt.Sprintf("drop extension if exists %s;", pgidentifier.QuoteIdentifier(e.Name))
}

// UpdateStatement moves the installed extension to this extension's version.
func (e *Extension) UpdateStatement() string {
	return fmt.Sprintf(
		"alter extension %s update to %s;", pgidentifier.QuoteIdentifier(e.Name), pgidentifier.QuoteLiteral(e.Version),
	)
}

func (e *Extension) EqualIgnoringVersion(other *Extension) bool {
	return e.Name == other.Name && e.Schema == other.Schema
}

type Privilege struct {
	ObjectType string `yaml:"object_type"`
	Schema     string `yaml:"schema"`
	Name       string `yaml:"name"`
	TargetUser string `yaml:"target_user"`
	Privilege  string `yaml:"privilege"`

	// IsGrantable is set if the grantee may grant the privilege to others.
	IsGrantable bool `yaml:"is_grantable,omitempty"`
}

func (p *Privilege) GetSchema() string {
	return p.Schema
}

func (p *Privilege) GetName() string {
	return p.Name
}

// ObjectSignature is the signature of the object the privilege is granted on.
func (p *Privilege) ObjectSignature() string {
	return pgidentifier.Qualify(p.Schema, p.Name)
}

// Signature is unique per object, grantee and privilege.
func (p *Privilege) Signature() string {
	return fmt.Sprintf("%s %s %s %s", p.ObjectType, p.ObjectSignature(), p.quotedTargetUser(), p.Privilege)
}

func (p *Privilege) quotedTargetUser() string {
	if strings.EqualFold(p.TargetUser, "public") {
		return "PUBLIC"
	}
	return pgidentifier.QuoteIdentifier(p.TargetUser)
}

func (p *Privilege) CreateStatement() string {
	var grantOption string
	if p.IsGrantable {
		grantOption = " with grant option"
	}
	return fmt.Sprintf(
		"grant %s on %s %s to %s%s;", p.Privilege, p.ObjectType, p.ObjectSignature(), p.quotedTargetUser(), grantOption,
	)
}

func (p *Privilege) DropStatement() string {
	return fmt.Sprintf("revoke %s on %s %s from %s;", p.Privilege, p.ObjectType, p.ObjectSignature(), p.quotedTargetUser())
}

// PolicyCommand is the command a policy applies to, using the catalog's polcmd codes.
type PolicyCommand string

const (
	PolicyCommandSelect PolicyCommand = "r"
	PolicyCommandInsert PolicyCommand = "a"
	PolicyCommandUpdate PolicyCommand = "w"
	PolicyCommandDelete PolicyCommand = "d"
	PolicyCommandAll    PolicyCommand = "*"
)

func (c PolicyCommand) keyword() string {
	switch c {
	case PolicyCommandSelect:
		return "select"
	case PolicyCommandInsert:
		return "insert"
	case PolicyCommandUpdate:
		return "update"
	case PolicyCommandDelete:
		return "delete"
	default:
		return "all"
	}
}

// Policy is a row security policy.
type Policy struct {
	Schema      string        `yaml:"schema"`
	TableName   string        `yaml:"table_name"`
	Name        string        `yaml:"name"`
	CommandType PolicyCommand `yaml:"commandtype"`
	Permissive  bool          `yaml:"permissive"`
	// Roles are already quoted where needed.
	Roles     []string `yaml:"roles"`
	Qual      string   `yaml:"qual,omitempty"`
	WithCheck string   `yaml:"withcheck,omitempty"`
}

func (p *Policy) GetSchema() string {
	return p.Schema
}

func (p *Policy) GetName() string {
	return p.Name
}

func (p *Policy) Signature() string {
	return pgidentifier.QualifyWithTable(p.Schema, p.TableName, p.Name)
}

func (p *Policy) Table() string {
	return pgidentifier.Qualify(p.Schema, p.TableName)
}

func (p *Policy) CreateStatement() string {
	permissiveness := "restrictive"
	if p.Permissive {
		permissiveness = "permissive"
	}
	lines := []string{
		"create policy " + pgidentifier.QuoteIdentifier(p.Name),
		"on " + p.Table(),
		"as " + permissiveness,
		"for " + p.CommandType.keyword(),
		"to " + strings.Join(p.Roles, ", "),
	}
	if p.Qual != "" {
		lines = append(lines, fmt.Sprintf("using (%s)", p.Qual))
	}
	if p.WithCheck != "" {
		lines = append(lines, fmt.Sprintf("with check (%s)", p.WithCheck))
	}
	return strings.Join(lines, "\n") + ";\n"
}

func (p *Policy) DropStatement() string {
	return fmt.Sprintf("drop policy %s on %s;", pgidentifier.QuoteIdentifier(p.Name), p.Table())
}

func (p *Policy) Equal(other *Policy) bool {
	return p.CreateStatement() == other.CreateStatement()
}

type Collation struct {
	Schema    string `yaml:"schema"`
	Name      string `yaml:"name"`
	Provider  string `yaml:"provider"`
	Encoding  int32  `yaml:"encoding"`
	LcCollate string `yaml:"lc_collate"`
	LcCtype   string `yaml:"lc_ctype"`
	Version   string `yaml:"version,omitempty"`
}

func (c *Collation) GetSchema() string {
	return c.Schema
}

func (c *Collation) GetName() string {
	return c.Name
}

func (c *Collation) Signature() string {
	return pgidentifier.Qualify(c.Schema, c.Name)
}

func (c *Collation) providerName() string {
	switch c.Provider {
	case "i":
		return "icu"
	case "c":
		return "libc"
	default:
		return "default"
	}
}

func (c *Collation) CreateStatement() string {
	var locale string
	if c.LcCollate == c.LcCtype {
		locale = "locale = " + pgidentifier.QuoteLiteral(c.LcCollate)
	} else {
		locale = fmt.Sprintf(
			"lc_collate = %s, lc_ctype = %s", pgidentifier.QuoteLiteral(c.LcCollate), pgidentifier.QuoteLiteral(c.LcCtype),
		)
	}
	return fmt.Sprintf(
		"create collation if not exists %s (provider = %s, %s);",
		c.Signature(), pgidentifier.QuoteLiteral(c.providerName()), locale,
	)
}

func (c *Collation) DropStatement() string {
	return fmt.Sprintf("drop collation if exists %s;", c.Signature())
}

// Comment is a comment on a relation, column or routine.
type Comment struct {
	ObjectType string `yaml:"object_type"`
	Schema     string `yaml:"schema"`
	Name       string `yaml:"name"`
	// IdentityArguments is only set for routines.
	IdentityArguments *string `yaml:"identity_arguments,omitempty"`
	ColumnName        string  `yaml:"column_name,omitempty"`
	Text              string  `yaml:"comment"`
}

func (c *Comment) GetSchema() string {
	return c.Schema
}

func (c *Comment) GetName() string {
	return c.Name
}

// Target is the signature of the commented object.
func (c *Comment) Target() string {
	switch {
	case c.IdentityArguments != nil:
		return pgidentifier.QualifyWithArgs(c.Schema, c.Name, *c.IdentityArguments)
	case c.ColumnName != "":
		return pgidentifier.QualifyWithTable(c.Schema, c.Name, c.ColumnName)
	default:
		return pgidentifier.Qualify(c.Schema, c.Name)
	}
}

func (c *Comment) Signature() string {
	return c.ObjectType + " " + c.Target()
}

func (c *Comment) CreateStatement() string {
	return fmt.Sprintf("comment on %s %s is %s;", c.ObjectType, c.Target(), pgidentifier.QuoteLiteral(c.Text))
}

func (c *Comment) DropStatement() string {
	return fmt.Sprintf("comment on %s %s is null;", c.ObjectType, c.Target())
}
