package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

var previewFlags struct {
	name    string
	address string
	phone   string
	payment string
}

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Order handoff tools",
}

var orderPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the WhatsApp message and link for the stored cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		method, err := order.ParsePaymentMethod(previewFlags.payment)
		if err != nil {
			return err
		}

		a, err := newReadOnlyApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		svc := checkout.NewService(a.store, nil, nil, a.logger, checkout.Config{
			ShopName:    a.cfg.Order.ShopName,
			Phone:       a.cfg.Order.Phone,
			CountryCode: a.cfg.Order.CountryCode,
		})
		res, err := svc.Preview(order.Draft{
			Name:          previewFlags.name,
			Address:       previewFlags.address,
			Phone:         previewFlags.phone,
			PaymentMethod: method,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		fmt.Fprintln(out)
		fmt.Fprintln(out, res.URL)
		return nil
	},
}

func init() {
	f := orderPreviewCmd.Flags()
	f.StringVar(&previewFlags.name, "name", "", "recipient name")
	f.StringVar(&previewFlags.address, "address", "", "delivery address")
	f.StringVar(&previewFlags.phone, "phone", "", "recipient phone (optional)")
	f.StringVar(&previewFlags.payment, "payment", "pix", "payment method: pix, card or cash")
	_ = orderPreviewCmd.MarkFlagRequired("name")
	_ = orderPreviewCmd.MarkFlagRequired("address")

	orderCmd.AddCommand(orderPreviewCmd)
}
