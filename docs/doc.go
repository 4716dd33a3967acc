// Package docs provides generated OpenAPI documentation.
//
// CropLens API
//
//	@title			CropLens API
//	@version		1.0
//	@description	Crop field photo analysis API backed by a multimodal LLM.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/agrolens/croplens
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/croplens/serve.go -o ./swagger --parseDependency --parseInternal
