package contracts

import contractports "xrpl-gateway/go-backend/internal/domains/contracts/ports"

type WalletAPI = contractports.WalletAPI
type TokenAPI = contractports.TokenAPI
type PaymentAPI = contractports.PaymentAPI
type AccountAPI = contractports.AccountAPI
type GatewayAPI = contractports.GatewayAPI
type CategorizedError = contractports.CategorizedError
