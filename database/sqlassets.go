package sqlassets

import _ "embed"

//go:embed schema/tenants.sql
var TenantsSQL string

//go:embed schema/principals.sql
var PrincipalsSQL string

//go:embed schema/profiles.sql
var ProfilesSQL string
