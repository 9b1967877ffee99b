package memory

import "github.com/iho/creditledger/internal/usecase"

func usecaseCreditFilter(sellerID string) usecase.CreditFilter {
	return usecase.CreditFilter{SellerID: sellerID}
}

func usecaseChargeFilter(sellerID, phone string) usecase.ChargeFilter {
	return usecase.ChargeFilter{SellerID: sellerID, PhoneNumber: phone}
}
