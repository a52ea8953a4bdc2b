package request

type VenueRequest struct {
	Name    string `json:"name" validate:"required,max=45"`
	Phone   string `json:"phone" validate:"required,max=45"`
	Address string `json:"address" validate:"required,max=45"`
}
