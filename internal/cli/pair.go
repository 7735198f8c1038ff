package cli

import (
	"fmt"
	"time"

	"github.com/terraincognita07/mealweek/internal/api"
	"github.com/terraincognita07/mealweek/internal/config"
)

type PairOptions struct {
	HouseholdID uint
	Name        string
	Role        string
}

// RunPairCommand registers a device from the server host without the
// passphrase and prints its token. It signs with SECRET_KEY, so the token is
// only valid for a server using the same key.
func RunPairCommand(runtime Runtime, options PairOptions) error {
	secret, err := config.ResolveSecretKey()
	if err != nil {
		return err
	}
	if options.HouseholdID == 0 {
		return fmt.Errorf("--household is required")
	}

	scheduler, closeStore, err := runtime.openScheduler()
	if err != nil {
		return err
	}
	defer closeStore()

	household, err := scheduler.Households.FindHousehold(options.HouseholdID)
	if err != nil {
		return fmt.Errorf("load household %d: %w", options.HouseholdID, err)
	}
	device, err := scheduler.Households.RegisterDevice(household.ID, options.Name, options.Role)
	if err != nil {
		return fmt.Errorf("register device: %w", err)
	}
	token, err := api.BuildDeviceToken([]byte(secret), device, runtime.now())
	if err != nil {
		return fmt.Errorf("sign device token: %w", err)
	}

	out := runtime.out()
	fmt.Fprintf(out, "Paired %s device %q (id %d) with %q\n", device.Role, device.Name, device.ID, household.Name)
	fmt.Fprintf(out, "Token: %s\n", token.Token)
	fmt.Fprintf(out, "Expires: %s\n", token.ExpiresAt.Format(time.RFC3339))
	return nil
}
