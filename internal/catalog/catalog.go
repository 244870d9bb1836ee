package catalog

import (
	"go.uber.org/zap"

	"petlove-admin/internal/crud"
	"petlove-admin/internal/upstream"
)

// Set bundles one controller per managed collection.
type Set struct {
	Categories   *crud.Controller[Category]
	Colors       *crud.Controller[Color]
	Brands       *crud.Controller[Brand]
	Measurements *crud.Controller[Measurement]
	Sizes        *crud.Controller[Size]
	Providers    *crud.Controller[Provider]
	Clients      *crud.Controller[Client]
	Products     *crud.Controller[Product]
	Users        *crud.Controller[User]
	Roles        *crud.Controller[Role]
	Purchases    *crud.Controller[Purchase]
	Sales        *crud.Controller[Sale]
}

func endpoints(base string) crud.Endpoints {
	return crud.Endpoints{
		List:         "/" + base,
		Create:       "/" + base,
		Update:       "/" + base + "/:id",
		Delete:       "/" + base + "/:id",
		ToggleStatus: "/" + base + "/:id/status",
	}
}

func New(api *upstream.Client, log *zap.Logger) *Set {
	return &Set{
		Categories: crud.NewController(crud.Config[Category]{
			Name:      "categories",
			Endpoints: endpoints("categories"),
			ID:        func(r *Category) int64 { return r.ID },
			Active:    func(r *Category) bool { return r.Active },
			SetActive: func(r *Category, v bool) { r.Active = v },
			SearchFields: func(r Category) []string {
				return []string{r.Name, r.Description, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Colors: crud.NewController(crud.Config[Color]{
			Name:      "colors",
			Endpoints: endpoints("colors"),
			ID:        func(r *Color) int64 { return r.ID },
			Active:    func(r *Color) bool { return r.Active },
			SetActive: func(r *Color, v bool) { r.Active = v },
			SearchFields: func(r Color) []string {
				return []string{r.Name, r.Value, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Brands: crud.NewController(crud.Config[Brand]{
			Name:      "brands",
			Endpoints: endpoints("brands"),
			ID:        func(r *Brand) int64 { return r.ID },
			Active:    func(r *Brand) bool { return r.Active },
			SetActive: func(r *Brand, v bool) { r.Active = v },
			SearchFields: func(r Brand) []string {
				return []string{r.Name, r.Description, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Measurements: crud.NewController(crud.Config[Measurement]{
			Name:      "measurements",
			Endpoints: endpoints("measurements"),
			ID:        func(r *Measurement) int64 { return r.ID },
			Active:    func(r *Measurement) bool { return r.Active },
			SetActive: func(r *Measurement, v bool) { r.Active = v },
			SearchFields: func(r Measurement) []string {
				return []string{r.Name, r.Abbreviation, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Sizes: crud.NewController(crud.Config[Size]{
			Name:      "sizes",
			Endpoints: endpoints("sizes"),
			ID:        func(r *Size) int64 { return r.ID },
			Active:    func(r *Size) bool { return r.Active },
			SetActive: func(r *Size, v bool) { r.Active = v },
			SearchFields: func(r Size) []string {
				return []string{r.Name, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Providers: crud.NewController(crud.Config[Provider]{
			Name:      "providers",
			Endpoints: endpoints("providers"),
			ID:        func(r *Provider) int64 { return r.ID },
			Active:    func(r *Provider) bool { return r.Active },
			SetActive: func(r *Provider, v bool) { r.Active = v },
			SearchFields: func(r Provider) []string {
				return []string{r.Name, r.Document, r.Email, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Clients: crud.NewController(crud.Config[Client]{
			Name:      "clients",
			Endpoints: endpoints("clients"),
			ID:        func(r *Client) int64 { return r.ID },
			Active:    func(r *Client) bool { return r.Active },
			SetActive: func(r *Client, v bool) { r.Active = v },
			SearchFields: func(r Client) []string {
				return []string{r.Name, r.Document, r.Email, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Products: crud.NewController(crud.Config[Product]{
			Name:      "products",
			Endpoints: endpoints("products"),
			ID:        func(r *Product) int64 { return r.ID },
			Active:    func(r *Product) bool { return r.Active },
			SetActive: func(r *Product, v bool) { r.Active = v },
			SearchFields: func(r Product) []string {
				return []string{r.Name, r.Description, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Users: crud.NewController(crud.Config[User]{
			Name:      "users",
			Endpoints: endpoints("users"),
			ID:        func(r *User) int64 { return r.ID },
			Active:    func(r *User) bool { return r.Active },
			SetActive: func(r *User, v bool) { r.Active = v },
			SearchFields: func(r User) []string {
				return []string{r.Name, r.Email, r.Role, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Roles: crud.NewController(crud.Config[Role]{
			Name:      "roles",
			Endpoints: endpoints("roles"),
			ID:        func(r *Role) int64 { return r.ID },
			Active:    func(r *Role) bool { return r.Active },
			SetActive: func(r *Role, v bool) { r.Active = v },
			SearchFields: func(r Role) []string {
				return []string{r.Name, r.Description, statusLabel(r.Active)}
			},
			Mutable: true,
		}, api, log),

		Purchases: crud.NewController(crud.Config[Purchase]{
			Name:      "purchases",
			Endpoints: endpoints("purchases"),
			ID:        func(r *Purchase) int64 { return r.ID },
			SearchFields: func(r Purchase) []string {
				return []string{r.Number}
			},
		}, api, log),

		Sales: crud.NewController(crud.Config[Sale]{
			Name:      "sales",
			Endpoints: endpoints("sales"),
			ID:        func(r *Sale) int64 { return r.ID },
			SearchFields: func(r Sale) []string {
				return []string{r.Number}
			},
		}, api, log),
	}
}
