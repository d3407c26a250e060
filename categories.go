package shapewaysbridge

import "context"

func (c *Client) GetCategories(ctx context.Context) (*Result, error) {
	return c.get(ctx, CategoriesURL)
}

func (c *Client) GetCategory(ctx context.Context, categoryID int) (*Result, error) {
	return c.get(ctx, SingleCategoryURL, categoryID)
}
