package api

import (
	"net/http"

	"github.com/AlexZinkM/devnet-wallet/internal/handler"
	"github.com/AlexZinkM/devnet-wallet/solana"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(service *solana.Service) (http.Handler, error) {
	walletHandler, err := handler.NewWalletHandler(service)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Wallet endpoints
	mux.HandleFunc("/wallet/create", walletHandler.Create)
	mux.HandleFunc("/wallet/fund", walletHandler.Fund)
	mux.HandleFunc("/wallet/balance", walletHandler.GetBalance)
	mux.HandleFunc("/wallet/transfer", walletHandler.Transfer)
	mux.HandleFunc("/wallet/qr", walletHandler.QR)

	return mux, nil
}
