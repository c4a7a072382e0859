package yamler

import (
	"fmt"
	"os"
	"strings"

	"github.com/ryansb/lambdactl/tools/filesystem/files"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Manifest describes a set of Lambda resources to reconcile in order.
type Manifest struct {
	Description string     `yaml:"description,omitempty"`
	Region      string     `yaml:"region,omitempty"`
	Resources   []Resource `yaml:"resources"`
}

// Resource is the union of the per-type parameters. Which fields apply
// depends on Type; validation happens in the resource clients.
type Resource struct {
	Type  string `yaml:"type"`
	State string `yaml:"state,omitempty"`
	Name  string `yaml:"name,omitempty"`

	// function
	Runtime          string            `yaml:"runtime,omitempty"`
	Handler          string            `yaml:"handler,omitempty"`
	Role             string            `yaml:"role,omitempty"`
	S3Bucket         string            `yaml:"s3_bucket,omitempty"`
	S3Key            string            `yaml:"s3_key,omitempty"`
	S3ObjectVersion  string            `yaml:"s3_object_version,omitempty"`
	LocalPath        string            `yaml:"local_path,omitempty"`
	Timeout          int32             `yaml:"timeout,omitempty"`
	MemorySize       int32             `yaml:"memory_size,omitempty"`
	Description      string            `yaml:"description,omitempty"`
	Publish          bool              `yaml:"publish,omitempty"`
	Version          int64             `yaml:"version,omitempty"`
	SubnetIDs        []string          `yaml:"subnet_ids,omitempty"`
	SecurityGroupIDs []string          `yaml:"security_group_ids,omitempty"`
	Environment      map[string]string `yaml:"environment,omitempty"`

	// alias, mapping, permission, s3event
	FunctionName      string   `yaml:"function_name,omitempty"`
	StatementID       string   `yaml:"statement_id,omitempty"`
	Action            string   `yaml:"action,omitempty"`
	Principal         string   `yaml:"principal,omitempty"`
	SourceARN         string   `yaml:"source_arn,omitempty"`
	SourceAccount     string   `yaml:"source_account,omitempty"`
	Qualifier         string   `yaml:"qualifier,omitempty"`
	TableName         string   `yaml:"table_name,omitempty"`
	Enabled           *bool    `yaml:"enabled,omitempty"`
	BatchSize         int32    `yaml:"batch_size,omitempty"`
	StartingPosition  string   `yaml:"starting_position,omitempty"`
	LambdaFunctionARN string   `yaml:"lambda_function_arn,omitempty"`
	Bucket            string   `yaml:"bucket,omitempty"`
	ID                string   `yaml:"id,omitempty"`
	Events            []string `yaml:"events,omitempty"`
	Prefix            string   `yaml:"prefix,omitempty"`
	Suffix            string   `yaml:"suffix,omitempty"`
}

var knownTypes = map[string]bool{
	"function":   true,
	"alias":      true,
	"mapping":    true,
	"permission": true,
	"s3event":    true,
}

func GetManifest(file string) (*Manifest, error) {
	yamlFile, err := os.ReadFile(files.NormalizePath(file))
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", file, err)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(yamlFile, m); err != nil {
		return nil, fmt.Errorf("unmarshalling manifest %s: %w", file, err)
	}
	for i := range m.Resources {
		if m.Resources[i].State == "" {
			m.Resources[i].State = "present"
		}
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if len(m.Resources) == 0 {
		return fmt.Errorf("manifest declares no resources")
	}
	for i, r := range m.Resources {
		kind := strings.ToLower(r.Type)
		if !knownTypes[kind] {
			return fmt.Errorf("resource %d: unknown type %q", i, r.Type)
		}
		if r.State != "present" && r.State != "absent" {
			return fmt.Errorf("resource %d (%s): state must be present or absent, got %q", i, kind, r.State)
		}
	}
	return nil
}

// Kind returns the canonical lowercase resource type.
func (r *Resource) Kind() string {
	return strings.ToLower(r.Type)
}

// Title returns the resource type as a display label, e.g. "Function".
func (r *Resource) Title() string {
	return cases.Title(language.Und).String(r.Kind())
}
