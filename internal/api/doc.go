// Package api declares the wire contract between the settings client and the
// settings server: request/response types, the gRPC service descriptor and
// the JSON codec used on the wire.
//
// The service is declared by hand rather than generated, so messages are
// plain Go structs encoded with encoding/json. Well-known protobuf types
// (emptypb.Empty) are accepted too and are encoded with protojson.
//
// Methods
//
//	/settings.v1.SettingsService/GetSettings      Empty -> SettingsResponse
//	/settings.v1.SettingsService/GetCapabilities  Empty -> CapabilitiesResponse
//	/settings.v1.SettingsService/PatchSettings    PatchSettingsRequest -> SettingsResponse
//	/settings.v1.SettingsService/Ping             Empty -> PingResponse
//
// Every call made through NewSettingsServiceClient selects the "json"
// content-subtype, which the server resolves to the same codec.
package api
