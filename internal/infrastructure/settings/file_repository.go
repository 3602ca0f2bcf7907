package settings

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"pagesummarizer/internal/domain/entity"
	"pagesummarizer/internal/domain/repository"
)

// FileRepository reads settings from a YAML file using the camelCase keys
// endpointUrl, modelName, apiKey, temperature and maxTokens. Keys missing
// from the file keep their defaults; a missing file means all defaults.
type FileRepository struct {
	path string
}

// NewFileRepository reads and writes the YAML settings file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

var _ repository.SettingsRepository = (*FileRepository)(nil)

// Load reads the file fresh on each call.
func (r *FileRepository) Load(ctx context.Context) (entity.SummarizationSettings, error) {
	settings := entity.DefaultSummarizationSettings()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return entity.SummarizationSettings{}, errors.Wrapf(err, "failed to read settings file %s", r.path)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return entity.SummarizationSettings{}, errors.Wrapf(err, "failed to parse settings file %s", r.path)
	}
	return settings, nil
}

// Save writes settings back to the file.
func (r *FileRepository) Save(ctx context.Context, settings entity.SummarizationSettings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write settings file %s", r.path)
	}
	return nil
}
