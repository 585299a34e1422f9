// devtoken imprime un JWT firmado con JWT_SECRET para probar la API en local.
//
// Uso: go run ./cmd/devtoken [-role bodeguero] [-user <uuid>]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/jhoicas/compras-api/pkg/jwt"
)

func main() {
	role := flag.String("role", jwt.RoleAdmin, "rol del token (admin, bodeguero, vendedor)")
	user := flag.String("user", "", "user id (por defecto uno aleatorio)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET vacío: la API corre sin autenticación, no hace falta token")
		os.Exit(1)
	}
	userID := *user
	if userID == "" {
		userID = uuid.New().String()
	}
	token, err := jwt.Generate(cfg.JWT.Secret, userID, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
