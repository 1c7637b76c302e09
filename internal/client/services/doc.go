// Package services contains application services of the BuildHub console.
//
// AuthService is the session component: it holds the signed-in admin and the
// bearer token, persists both to local storage, and answers the API client's
// token and unauthorized callbacks.
package services
