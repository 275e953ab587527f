// Package main Returns Service API
//
//	@title						Returns Service API
//	@version					1.0
//	@description				Return requests, refunds and return messaging for delivered orders.
//
//	@contact.name				UniEdit Support
//	@contact.url				https://uniedit.io/support
//	@contact.email				support@uniedit.io
//
//	@license.name				Proprietary
//	@license.url				https://uniedit.io/license
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Returns
//	@tag.description			Customer return requests
//
//	@tag.name					Returns Admin
//	@tag.description			Return review and refunds
//
//	@tag.name					Messages
//	@tag.description			Return request conversations
//
//	@tag.name					Notifications
//	@tag.description			Unread message counts
package main
