// Package dto define los cuerpos de request y response de la API /v1.
// Los montos viajan como money.Amount (número JSON con 2 decimales).
package dto
