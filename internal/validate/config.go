package validate

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

var (
	ErrNoOrthancConfig = errors.New("neither ORTHANC_JSON nor ORTHANC__DICOM_MODALITIES is set")
	ErrInvalidConfig   = errors.New("invalid Orthanc JSON configuration")
)

// ConfigReport summarizes the JSON values found in the orthanc service environment.
type ConfigReport struct {
	OrthancJSONFound bool
	ModalitiesFound  bool
	Modalities       []string
	Invalid          map[string]error
}

// ValidateConfig checks that the Orthanc JSON settings in the compose file parse.
// A variable that is absent only produces a warning; both absent is an error.
func ValidateConfig(path string, logger *slog.Logger) (ConfigReport, error) {
	report := ConfigReport{Invalid: map[string]error{}}
	logger.Info("Validating Orthanc JSON configurations", "compose", path)

	compose, err := LoadCompose(path)
	if err != nil {
		return report, err
	}
	env, err := compose.Environment(OrthancService)
	if err != nil {
		return report, err
	}

	orthancJSON := env[EnvOrthancJSON]
	modalities := env[EnvDicomModalities]
	if orthancJSON == "" && modalities == "" {
		return report, ErrNoOrthancConfig
	}

	if orthancJSON != "" {
		report.OrthancJSONFound = true
		if _, err := ParseJSONC(orthancJSON); err != nil {
			logger.Error("ORTHANC_JSON is invalid", "error", err)
			report.Invalid[EnvOrthancJSON] = err
		} else {
			logger.Info("ORTHANC_JSON is valid")
		}
	} else {
		logger.Warn("ORTHANC_JSON not found", "compose", path)
	}

	if modalities != "" {
		report.ModalitiesFound = true
		parsed, err := ParseJSONC(modalities)
		if err != nil {
			logger.Error("ORTHANC__DICOM_MODALITIES is invalid", "error", err)
			report.Invalid[EnvDicomModalities] = err
		} else {
			report.Modalities = modalityNames(parsed)
			logger.Info("ORTHANC__DICOM_MODALITIES is valid", "count", len(report.Modalities), "modalities", report.Modalities)
		}
	} else {
		logger.Warn("ORTHANC__DICOM_MODALITIES not found", "compose", path)
	}

	if len(report.Invalid) > 0 {
		return report, fmt.Errorf("%w: %d invalid value(s)", ErrInvalidConfig, len(report.Invalid))
	}
	logger.Info("All JSON configurations are valid")
	return report, nil
}

func modalityNames(parsed any) []string {
	object, ok := parsed.(map[string]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(object))
	for name := range object {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
