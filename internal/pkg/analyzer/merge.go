package analyzer

import "github.com/configured/adobe-launch-analyzer/pkg/models"

// mergeInto folds src into dst. Rules are concatenated so discovery
// order is preserved across scripts; dataElements and extensions are
// shallow-merged with later scripts winning on key collisions, and
// metadata fields are taken from the latest script that has them.
func mergeInto(dst, src *models.Container) {
	dst.Rules = append(dst.Rules, src.Rules...)

	for name, value := range src.DataElements {
		dst.DataElements[name] = value
	}
	for id, value := range src.Extensions {
		dst.Extensions[id] = value
	}

	if !src.BuildInfo.IsAbsent() {
		dst.BuildInfo = src.BuildInfo
	}
	if !src.Property.IsAbsent() {
		dst.Property = src.Property
	}
	if !src.Company.IsAbsent() {
		dst.Company = src.Company
	}
	if !src.Environment.IsAbsent() {
		dst.Environment = src.Environment
	}
}
