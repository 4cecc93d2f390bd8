/*
Package authsdk provides a client SDK for the registrar service, an OAuth2
authorization server implementing OpenID Connect Dynamic Client Registration.

# Overview

The server exposes a small surface:

  - POST /oauth2/token: client_credentials grant
  - POST /connect/register: create a client (RFC 7591)
  - GET /connect/register?client_id=...: read a client's registration (RFC 7592 read only)
  - POST /oauth2/introspect: token introspection (RFC 7662)
  - POST /v1/bootstrap: create the first client on an empty server
  - GET /.well-known/jwks.json, /livez, /readyz

The wire types and OAuth2Error values in this package are shared with the
server, so both sides agree on error codes and field names.

# Registering a client

A registration call needs a bearer token carrying the registration scope
(client.create by default). The bootstrapped client can mint one:

	client := authsdk.NewSDKClient("https://auth.example.com")

	tok, err := client.ClientCredentialsGrant(ctx, adminID, adminSecret, []string{"client.create"})
	if err != nil {
		return err
	}

	reg, err := client.Register(ctx, tok.AccessToken, authsdk.ClientRegistration{
		ClientName:   authsdk.String("billing"),
		RedirectURIs: []string{"https://billing.example.com/callback"},
		GrantTypes:   []string{"authorization_code", "client_credentials"},
	})

The response carries client_id, client_secret, and a registration access
token. That token is bound to the new client and is the way to read the
registration back:

	cfg, err := client.GetClientConfiguration(ctx, reg.RegistrationAccessToken, reg.ClientID)

A token bound to one client can never read another client's registration;
the server answers 401 invalid_token in that case, exactly as it would for an
expired or forged token.

# Error Handling

Non-success responses are returned as *OAuth2Error:

	var oerr *authsdk.OAuth2Error
	if errors.As(err, &oerr) && oerr.Code == authsdk.ErrorCodeInvalidRedirectURI {
		// fix the redirect URIs
	}
*/
package authsdk
