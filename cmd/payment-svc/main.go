package main

import (
	"github.com/corray333/backend-labs/orderpay/internal/app/paymentapp"
	"github.com/corray333/backend-labs/orderpay/internal/config"
)

func main() {
	config.MustInit("payment-svc")
	paymentapp.MustNewApp().Run()
}
