package shapewaysbridge

import "context"

// GetMaterials lists all materials. The payload is returned as sent; the
// materials list is under its "materials" key.
func (c *Client) GetMaterials(ctx context.Context) (*Result, error) {
	return c.get(ctx, MaterialsURL)
}

// GetMaterial fetches a single material.
func (c *Client) GetMaterial(ctx context.Context, materialID int) (*Result, error) {
	return c.get(ctx, SingleMaterialURL, materialID)
}
