package configservice

import (
	"github.com/clear-ness/view-counter/model"
)

// ConfigService is anything that can hand out the current configuration.
type ConfigService interface {
	Config() *model.Config
}
