// internal/cli/scaffold.go
package cli

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"mandi-workers/pkg/registry"

	"github.com/spf13/cobra"
)

// workerData feeds the scaffold templates.
type workerData struct {
	PackageName  string
	TaskType     string
	Description  string
	InputFields  []field
	OutputFields []field
}

type field struct {
	Name    string
	Type    string
	JSON    string
	Comment string
}

func packageName(taskType string) string {
	return strings.ReplaceAll(taskType, "-", "")
}

// goFieldName turns a JSON property into an exported Go identifier.
func goFieldName(prop string) string {
	if prop == "" {
		return prop
	}
	name := strings.ToUpper(prop[:1]) + prop[1:]
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

func goTypeFromJSONType(details map[string]interface{}) string {
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// schemaFields lists the properties of a JSON schema sorted by name.
func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]field, 0, len(names))
	for _, name := range names {
		details, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}
		desc, _ := details["description"].(string)
		fields = append(fields, field{
			Name:    goFieldName(name),
			Type:    goTypeFromJSONType(details),
			JSON:    name,
			Comment: desc,
		})
	}
	return fields
}

var scaffoldTemplates = map[string]string{
	"config.go": `// {{ .Dir }}/config.go
package {{ .PackageName }}

import (
	"time"

	"mandi-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
	}
}
`,
	"models.go": `// {{ .Dir }}/models.go
package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSON }}\"`" + `{{ if .Comment }} // {{ .Comment }}{{ end }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSON }}\"`" + `{{ if .Comment }} // {{ .Comment }}{{ end }}
{{- end }}
}
`,
	"handler.go": `// {{ .Dir }}/handler.go
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"

	"mandi-workers/internal/common/errors"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)
{{ if .Description }}
// Handler: {{ .Description }}
{{- end }}
type Handler struct {
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		logger:     l,
		errHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})
	timer := metrics.StartJob(TaskType)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		timer.Fail(string(errors.ErrCodeParseError))
		h.errHandler.HandleJobError(ctx, client, job, errors.NewParseError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		timer.Fail(string(errors.Normalize(err).Code))
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	timer.Complete()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, _ *Input) (*Output, error) {
	return nil, errors.NewInternalError(fmt.Errorf("%s is not implemented", TaskType))
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`,
}

// scaffoldFiles renders the worker package for activity, keyed by file name.
func scaffoldFiles(activity *registry.Activity, dir string) (map[string][]byte, error) {
	data := struct {
		workerData
		Dir string
	}{
		workerData: workerData{
			PackageName:  packageName(activity.TaskType),
			TaskType:     activity.TaskType,
			Description:  activity.Description,
			InputFields:  schemaFields(activity.InputSchema),
			OutputFields: schemaFields(activity.OutputSchema),
		},
		Dir: filepath.ToSlash(dir),
	}

	files := make(map[string][]byte, len(scaffoldTemplates))
	for name, text := range scaffoldTemplates {
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		files[name] = src
	}
	return files, nil
}

func newRegistryScaffoldCommand() *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "scaffold <task-type>",
		Short: "Generate a worker package skeleton from a registry entry",
		Long: `Generate config.go, models.go and handler.go for a registered task type.
Input and Output fields come from the activity's JSON schemas.

Examples:
  mandi registry scaffold export-ranking
  mandi registry scaffold export-ranking --dir internal/workers/report/export-ranking`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(registryPath)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			activity, err := reg.FindByTaskType(args[0])
			if err != nil {
				return err
			}
			if dir == "" {
				dir = filepath.Join("internal", "workers", activity.Category, activity.TaskType)
			}

			files, err := scaffoldFiles(activity, dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			names := make([]string, 0, len(files))
			for name := range files {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				path := filepath.Join(dir, name)
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
				if err := os.WriteFile(path, files[name], 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Target directory (defaults to internal/workers/<category>/<task-type>)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}
