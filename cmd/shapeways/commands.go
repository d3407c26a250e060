package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	shapewaysbridge "github.com/opengovern/shapeways-bridge"
)

func newRootCmd(env *Env) *cobra.Command {
	gf := &globalFlags{}
	root := &cobra.Command{
		Use:     "shapeways",
		Short:   "Query and order from the Shapeways API",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Long: `Query and order from the Shapeways API.

Credentials come from the config file, the environment (SHAPEWAYS_CLIENT_ID,
SHAPEWAYS_CLIENT_SECRET or SHAPEWAYS_ACCESS_TOKEN) or the --token flag.
Every command prints the normalized response as JSON.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&gf.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&gf.baseURL, "base-url", "", "API base URL")
	root.PersistentFlags().StringVar(&gf.token, "token", "", "pre-issued access token")
	root.PersistentFlags().BoolVar(&gf.debug, "debug", false, "log each request")

	root.AddCommand(
		infoCmd(env, gf),
		materialsCmd(env, gf),
		modelsCmd(env, gf),
		modelCmd(env, gf),
		deleteModelCmd(env, gf),
		uploadCmd(env, gf),
		categoriesCmd(env, gf),
		printersCmd(env, gf),
		cartCmd(env, gf),
		addToCartCmd(env, gf),
		ordersCmd(env, gf),
		orderCmd(env, gf),
		cancelOrderCmd(env, gf),
		priceCmd(env, gf),
		catalogCmd(env, gf),
	)
	return root
}

// callFunc has the shape of a Client method expression such as
// (*shapewaysbridge.Client).GetMaterials.
type callFunc func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error)

// run connects, performs one call and prints its result.
func run(cmd *cobra.Command, env *Env, gf *globalFlags, call callFunc) error {
	ctx := cmd.Context()
	client, _, err := connect(ctx, env, gf)
	if err != nil {
		return err
	}
	res, err := call(client, ctx)
	if err != nil {
		return err
	}
	return printResult(env.Stdout, res)
}

func parseID(name, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid argument %q for %s: must be a positive integer", s, name)
	}
	return id, nil
}

// listOrGet builds a command that lists a collection, or fetches one entry
// when an id argument is given.
func listOrGet(env *Env, gf *globalFlags, use, short string,
	list callFunc,
	get func(*shapewaysbridge.Client, context.Context, int) (*shapewaysbridge.Result, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return run(cmd, env, gf, list)
			}
			id, err := parseID(use+" id", args[0])
			if err != nil {
				return err
			}
			return run(cmd, env, gf, func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error) {
				return get(c, ctx, id)
			})
		},
	}
}

// byID builds a command taking exactly one id argument.
func byID(env *Env, gf *globalFlags, use, short string,
	call func(*shapewaysbridge.Client, context.Context, int) (*shapewaysbridge.Result, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(use+" id", args[0])
			if err != nil {
				return err
			}
			return run(cmd, env, gf, func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error) {
				return call(c, ctx, id)
			})
		},
	}
}

func infoCmd(env *Env, gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show API version and operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, gf, (*shapewaysbridge.Client).GetAPIInfo)
		},
	}
}

func materialsCmd(env *Env, gf *globalFlags) *cobra.Command {
	return listOrGet(env, gf, "materials", "List materials, or show one",
		(*shapewaysbridge.Client).GetMaterials, (*shapewaysbridge.Client).GetMaterial)
}

func categoriesCmd(env *Env, gf *globalFlags) *cobra.Command {
	return listOrGet(env, gf, "categories", "List categories, or show one",
		(*shapewaysbridge.Client).GetCategories, (*shapewaysbridge.Client).GetCategory)
}

func printersCmd(env *Env, gf *globalFlags) *cobra.Command {
	return listOrGet(env, gf, "printers", "List printers, or show one",
		(*shapewaysbridge.Client).GetPrinters, (*shapewaysbridge.Client).GetPrinter)
}

func ordersCmd(env *Env, gf *globalFlags) *cobra.Command {
	return listOrGet(env, gf, "orders", "List orders, or show one",
		(*shapewaysbridge.Client).GetOrders, (*shapewaysbridge.Client).GetOrder)
}

func modelCmd(env *Env, gf *globalFlags) *cobra.Command {
	return byID(env, gf, "model", "Show one of your models", (*shapewaysbridge.Client).GetModel)
}

func deleteModelCmd(env *Env, gf *globalFlags) *cobra.Command {
	return byID(env, gf, "delete-model", "Delete one of your models", (*shapewaysbridge.Client).DeleteModel)
}

func cancelOrderCmd(env *Env, gf *globalFlags) *cobra.Command {
	return byID(env, gf, "cancel-order", "Cancel an order", (*shapewaysbridge.Client).CancelOrder)
}

func modelsCmd(env *Env, gf *globalFlags) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List your models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, gf, func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error) {
				return c.GetModels(ctx, page)
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func uploadCmd(env *Env, gf *globalFlags) *cobra.Command {
	var (
		fromS3  bool
		opts    shapewaysbridge.UploadOptions
		public  bool
		forSale bool
	)
	cmd := &cobra.Command{
		Use:   "upload <path|key>",
		Short: "Upload a model file",
		Long: `Upload a model file.

The argument is a local path, or an object key in the configured bucket
when --s3 is given.`,
		Example: `  shapeways upload ./cube.stl --title Cube
  shapeways upload parts/cube.stl --s3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("public") {
				opts.IsPublic = &public
			}
			if cmd.Flags().Changed("for-sale") {
				opts.IsForSale = &forSale
			}
			ctx := cmd.Context()
			client, cfg, err := connect(ctx, env, gf)
			if err != nil {
				return err
			}

			var res *shapewaysbridge.Result
			if fromS3 {
				if !cfg.S3.Enabled() {
					return fmt.Errorf("--s3 requires s3.endpoint and s3.bucket in the config")
				}
				src, err := env.S3Reader(cfg.S3)
				if err != nil {
					return err
				}
				res, err = client.UploadModelFrom(ctx, src, args[0], opts)
				if err != nil {
					return err
				}
			} else {
				res, err = client.UploadModel(ctx, args[0], opts)
				if err != nil {
					return err
				}
			}
			return printResult(env.Stdout, res)
		},
	}
	cmd.Flags().BoolVar(&fromS3, "s3", false, "read the model from the configured S3 bucket")
	cmd.Flags().StringVar(&opts.FileName, "file-name", "", "file name sent to the API")
	cmd.Flags().StringVar(&opts.Title, "title", "", "model title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "model description")
	cmd.Flags().Float64Var(&opts.UploadScale, "scale", 0, "upload scale, e.g. 0.001 for millimeters")
	cmd.Flags().BoolVar(&public, "public", false, "make the model public")
	cmd.Flags().BoolVar(&forSale, "for-sale", false, "offer the model for sale")
	return cmd
}

func cartCmd(env *Env, gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, gf, (*shapewaysbridge.Client).GetCart)
		},
	}
}

func addToCartCmd(env *Env, gf *globalFlags) *cobra.Command {
	var item shapewaysbridge.CartItem
	cmd := &cobra.Command{
		Use:     "add-to-cart <model-id>",
		Short:   "Add a model to the cart",
		Example: `  shapeways add-to-cart 123 --material 6 --quantity 2`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("model id", args[0])
			if err != nil {
				return err
			}
			item.ModelID = id
			return run(cmd, env, gf, func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error) {
				return c.AddToCart(ctx, item)
			})
		},
	}
	cmd.Flags().IntVar(&item.MaterialID, "material", 0, "material id")
	cmd.Flags().IntVar(&item.Quantity, "quantity", 1, "quantity")
	_ = cmd.MarkFlagRequired("material")
	return cmd
}

func orderCmd(env *Env, gf *globalFlags) *cobra.Command {
	var (
		req   shapewaysbridge.OrderRequest
		items []string
	)
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order",
		Long: `Place an order for one model in one material, or for several items
given as model:material:quantity.`,
		Example: `  shapeways order --model 123 --material 6 --payment-id tok_1 --first-name Ada ...
  shapeways order --item 123:6:2 --item 124:25:1 ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range items {
				it, err := parseOrderItem(s)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, it)
			}
			return run(cmd, env, gf, func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error) {
				return c.OrderModel(ctx, req)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&req.ModelID, "model", 0, "model id")
	f.IntVar(&req.MaterialID, "material", 0, "material id")
	f.StringArrayVar(&items, "item", nil, "order item as model:material:quantity (repeatable)")
	f.StringVar(&req.PaymentVerificationID, "payment-id", "", "payment verification id")
	f.StringVar(&req.PaymentMethod, "payment-method", shapewaysbridge.DefaultPaymentMethod, "payment method")
	f.StringVar(&req.ShippingOption, "shipping", shapewaysbridge.DefaultShippingOption, "shipping option")
	f.StringVar(&req.FirstName, "first-name", "", "recipient first name")
	f.StringVar(&req.LastName, "last-name", "", "recipient last name")
	f.StringVar(&req.Country, "country", "", "country code")
	f.StringVar(&req.State, "state", "", "state, if the country has them")
	f.StringVar(&req.City, "city", "", "city")
	f.StringVar(&req.Address1, "address1", "", "address line 1")
	f.StringVar(&req.Address2, "address2", "", "address line 2")
	f.StringVar(&req.ZipCode, "zip", "", "zip code")
	f.StringVar(&req.PhoneNumber, "phone", "", "phone number")
	return cmd
}

func parseOrderItem(s string) (shapewaysbridge.OrderItem, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return shapewaysbridge.OrderItem{}, fmt.Errorf("invalid argument %q for --item: want model:material:quantity", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := parseID("--item", p)
		if err != nil {
			return shapewaysbridge.OrderItem{}, err
		}
		nums[i] = n
	}
	return shapewaysbridge.OrderItem{ModelID: nums[0], MaterialID: nums[1], Quantity: nums[2]}, nil
}

func priceCmd(env *Env, gf *globalFlags) *cobra.Command {
	var req shapewaysbridge.PriceRequest
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Quote a model by its geometry",
		Example: `  shapeways price --volume 0.000001 --area 0.0006 \
    --x-max 0.01 --y-max 0.01 --z-max 0.01 --materials 6,25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, env, gf, func(c *shapewaysbridge.Client, ctx context.Context) (*shapewaysbridge.Result, error) {
				return c.GetPrice(ctx, req)
			})
		},
	}
	f := cmd.Flags()
	f.Float64Var(&req.Volume, "volume", 0, "volume in cubic meters")
	f.Float64Var(&req.Area, "area", 0, "surface area in square meters")
	f.Float64Var(&req.XBoundMin, "x-min", 0, "x bound min in meters")
	f.Float64Var(&req.XBoundMax, "x-max", 0, "x bound max in meters")
	f.Float64Var(&req.YBoundMin, "y-min", 0, "y bound min in meters")
	f.Float64Var(&req.YBoundMax, "y-max", 0, "y bound max in meters")
	f.Float64Var(&req.ZBoundMin, "z-min", 0, "z bound min in meters")
	f.Float64Var(&req.ZBoundMax, "z-max", 0, "z bound max in meters")
	f.IntSliceVar(&req.Materials, "materials", nil, "material ids to quote")
	return cmd
}

// catalogCmd fetches materials, categories and printers concurrently on one
// client and prints them keyed by name.
func catalogCmd(env *Env, gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Fetch materials, categories and printers at once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := connect(cmd.Context(), env, gf)
			if err != nil {
				return err
			}

			calls := []struct {
				name string
				call callFunc
			}{
				{"materials", (*shapewaysbridge.Client).GetMaterials},
				{"categories", (*shapewaysbridge.Client).GetCategories},
				{"printers", (*shapewaysbridge.Client).GetPrinters},
			}
			results := make([]*shapewaysbridge.Result, len(calls))

			g, ctx := errgroup.WithContext(cmd.Context())
			for i, c := range calls {
				g.Go(func() error {
					res, err := c.call(client, ctx)
					if err != nil {
						return fmt.Errorf("%s: %w", c.name, err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := make(map[string]resultView, len(calls))
			var firstErr error
			for i, c := range calls {
				out[c.name] = viewOf(results[i])
				if err := outcomeErr(results[i]); err != nil && firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", c.name, err)
				}
			}
			if err := writeJSON(env.Stdout, out); err != nil {
				return err
			}
			return firstErr
		},
	}
}
