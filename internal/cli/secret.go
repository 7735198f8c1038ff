package cli

import (
	"fmt"

	"github.com/terraincognita07/mealweek/internal/security"
)

func RunGenerateSecretCommand(runtime Runtime) error {
	secret, err := security.GenerateSecretKey()
	if err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}
	fmt.Fprintf(runtime.out(), "SECRET_KEY=%s\n", secret)
	return nil
}
