// devtoken firma un JWT de desarrollo con el secreto de la configuración.
//
// Uso: go run ./cmd/devtoken -user 00000000-0000-0000-0000-000000000001 -role MANAGER
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stockops-api/pkg/config"
	"github.com/jhoicas/stockops-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "id del usuario (por defecto uno aleatorio)")
	role := flag.String("role", jwt.RoleOperator, "MANAGER | OPERATOR")
	minutes := flag.Int("minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *user == "" {
		*user = uuid.NewString()
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}

	token, err := jwt.Generate(cfg.JWT.Secret, *user, strings.ToUpper(*role), cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
