package dto

type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type ContactReceipt struct {
	Reference string `json:"reference"`
}
