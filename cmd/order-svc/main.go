package main

import (
	"github.com/corray333/backend-labs/orderpay/internal/app/orderapp"
	"github.com/corray333/backend-labs/orderpay/internal/config"
)

func main() {
	config.MustInit("order-svc")
	orderapp.MustNewApp().Run()
}
