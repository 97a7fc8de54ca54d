package client

import "github.com/demopay/capture-widget/internal/domain"

// SessionRequest is the body of POST /payment/session/create.
type SessionRequest struct {
	OrderID  string          `json:"orderId"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Customer domain.Customer `json:"customer"`
}

// authenticateRequest is the body of POST /payment/authenticate. The mock
// never forwards real card data: every sensitive field is a placeholder and
// the amount is fixed. A production port replaces this whole construction
// with real tokenization.
type authenticateRequest struct {
	RecordLocator string        `json:"recordLocator"`
	PaymentDetail paymentDetail `json:"paymentDetail"`
}

type paymentDetail struct {
	PaymentReference string        `json:"paymentReference"`
	FormOfPayment    formOfPayment `json:"formOfPayment"`
	PaymentCard      paymentCard   `json:"paymentCard"`
	Amount           float64       `json:"amount"`
}

type formOfPayment struct {
	Type    string `json:"type"`
	FopCode string `json:"fopCode"`
}

type paymentCard struct {
	CardCode         string         `json:"cardCode"`
	CardNumber       string         `json:"cardNumber"`
	CardSecurityCode string         `json:"cardSecurityCode"`
	ExpireDate       string         `json:"expireDate"`
	CardHolderName   cardHolderName `json:"cardHolderName"`
}

type cardHolderName struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type authenticateResponse struct {
	Result struct {
		ResultCode string `json:"resultCode"`
	} `json:"result"`
}

func demoAuthenticateRequest() authenticateRequest {
	return authenticateRequest{
		RecordLocator: "ABC123",
		PaymentDetail: paymentDetail{
			PaymentReference: "PAY123456",
			FormOfPayment: formOfPayment{
				Type:    "CC",
				FopCode: "VI",
			},
			PaymentCard: paymentCard{
				CardCode:         "VI",
				CardNumber:       "411111######1111",
				CardSecurityCode: "###",
				ExpireDate:       "122025",
				CardHolderName: cardHolderName{
					Name:      "TESTCARD",
					FirstName: "TESTCARD",
					LastName:  "",
				},
			},
			Amount: 499.00,
		},
	}
}
