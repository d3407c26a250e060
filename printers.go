package shapewaysbridge

import "context"

func (c *Client) GetPrinters(ctx context.Context) (*Result, error) {
	return c.get(ctx, PrintersURL)
}

func (c *Client) GetPrinter(ctx context.Context, printerID int) (*Result, error) {
	return c.get(ctx, SinglePrinterURL, printerID)
}
