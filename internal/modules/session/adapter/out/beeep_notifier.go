package out

import (
	"github.com/gen2brain/beeep"

	sessionout "blazectl/internal/modules/session/port/out"
)

// BeeepNotifier sends desktop notifications through the platform notifier.
type BeeepNotifier struct{}

func NewBeeepNotifier() sessionout.Notifier {
	beeep.AppName = "blazectl"
	return BeeepNotifier{}
}

func (BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
