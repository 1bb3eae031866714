// Copyright 2024 - 2025, the Driftnote contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides HTTP request handling functionality for the
Driftnote website.

Route definitions are centralized in router.DefineRoutes, which sets up all
paths and their corresponding handlers; the middleware chain around them is
assembled in router.RegisterMiddleware.
*/
package middleware
